package main

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"etfDashboard/internal/catalog"
)

type catalogCmd struct{}

func (*catalogCmd) Name() string     { return "catalog" }
func (*catalogCmd) Synopsis() string { return "list the ETFs and periods available" }
func (*catalogCmd) Usage() string {
	return `dashboard catalog

  Prints the instrument catalog and the selectable periods.
`
}

func (*catalogCmd) SetFlags(*flag.FlagSet) {}

func (*catalogCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	printMarkdown(catalogMarkdown())
	return subcommands.ExitSuccess
}

func catalogMarkdown() string {
	var b strings.Builder
	b.WriteString("# ETFs\n\n| Símbolo | Nombre | Descripción |\n|---|---|---|\n")
	for _, in := range catalog.Instruments() {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", in.Symbol, in.Name, in.Description)
	}
	b.WriteString("\n# Periodos\n\n| Código | Periodo |\n|---|---|\n")
	for _, p := range catalog.Periods() {
		fmt.Fprintf(&b, "| %s | %s |\n", p.Code, p.Label)
	}
	return b.String()
}
