package main

import (
	"github.com/alecthomas/kong"
)

const (
	programName = "sdi12ctl"
	programDesc = "SDI-12 bus master command line tool"
)

func main() {
	ctx := kong.Parse(&cli,
		kong.Name(programName),
		kong.Description(programDesc),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	err := ctx.Run(&context{})
	ctx.FatalIfErrorf(err)
}
