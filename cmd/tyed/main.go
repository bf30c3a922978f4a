/*
Command tyed is a command line front end for the editing core. It loads
text files into buffers, shapes their lines and prints the resulting
geometry. In interactive mode text may be edited through a cursor.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/logrusadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"github.com/npillmayer/tyed/core"
	"github.com/npillmayer/tyed/engine/editor"
	"github.com/npillmayer/tyed/engine/frame/line"
	"github.com/npillmayer/tyed/engine/glyphing/fontcore"
	"github.com/pterm/pterm"
)

// tracer traces with key 'tyed.editor'.
func tracer() tracing.Trace {
	return tracing.Select("tyed.editor")
}

func main() {
	initDisplay()

	// set up logging
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	tracing.RegisterTraceAdapter("logrus", logrusadapter.GetAdapter(), false)
	conf := testconfig.Conf{
		"tracing.adapter":   adapterFromArgs(os.Args[1:]),
		"trace.tyed.editor": "Info",
		"trace.tyed.buffer": "Error",
		"trace.tyed.fonts":  "Error",
		"trace.tyed.glyphs": "Error",
		"trace.tyed.frame":  "Error",
		"app-key":           "tyed",
	}
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		fmt.Printf("error configuring tracing")
		os.Exit(1)
	}
	tracing.SetTraceSelector(trace2go.Selector())

	// command line flags
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.String("log", "go", "Log adapter [go|logrus]")
	tabsize := flag.Int("tabsize", 0, "Tab size")
	textsize := flag.Int("size", 0, "Text size in points")
	fixed := flag.String("font", "", "Fixed pitch font to use")
	ligatures := flag.Bool("liga", true, "Shape ligatures")
	lang := flag.String("lang", "", "Language of the text (BCP 47)")
	interactive := flag.Bool("i", false, "Interactive mode")
	flag.Parse()
	if *tabsize > 0 {
		conf["tabsize"] = *tabsize
	}
	if *textsize > 0 {
		conf["text-size"] = *textsize
	}
	if *fixed != "" {
		conf["font-fixed"] = *fixed
	}
	if !*ligatures {
		conf["ligatures"] = false
	}
	if *lang != "" {
		conf["language"] = *lang
	}
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	// set up the editing core and the fonts
	ed := editor.New(conf)
	fc := fontcore.New(conf)
	defer fc.Close()
	settings := ed.Settings()
	intp := &Intp{
		editor: ed,
		shaper: line.Shaper{
			Fonts:   settings.LoadFonts(fc),
			Service: fc,
			DPI:     settings.DPI,
		},
		fonts:  fc,
		cstyle: line.Block,
	}
	if flag.NArg() == 0 {
		intp.use(ed.NewEmptyBuffer())
	}
	for _, path := range flag.Args() {
		if err := intp.open(path); err != nil {
			pterm.Error.Println(core.UserMessage(err))
			os.Exit(2)
		}
	}
	if !*interactive {
		intp.show(0, intp.buf.LenLines())
		return
	}

	// set up REPL
	repl, err := readline.NewEx(&readline.Config{
		Prompt:       "tyed > ",
		AutoComplete: intp.completer(),
	})
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	intp.repl = repl
	pterm.Info.Println("Welcome to tyed, quit with <ctrl>D")
	intp.REPL()
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  " !  ",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// adapterFromArgs looks for "-log logrus" before flags are parsed, as tracing
// has to be set up first.
func adapterFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "-log=logrus" || (arg == "-log" && i+1 < len(args) && args[i+1] == "logrus") {
			return "logrus"
		}
	}
	return "go"
}
