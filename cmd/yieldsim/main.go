/*
main.go - yieldsim command-line entry point

PURPOSE:
  Runs projections from the terminal with the same provider chain as the
  HTTP server. Amounts are typed and printed in pt-BR notation.

COMMANDS:
  simulate    Project an investment over N business days
  holidays    List the holidays the engine skips in a year
  rate        Show the daily and annual rate for a start year
  annualize   Convert a daily rate into its annual equivalent

EXAMPLES:
  yieldsim simulate --principal "R$ 1.000,00" --start 2025-01-03 --days 1
  yieldsim holidays 2025 --offline
  yieldsim annualize 0.0004

SEE ALSO:
  - cli/: terminal rendering
  - bootstrap/bootstrap.go: provider chain
*/
package main

func main() {
	Execute()
}
