package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/coreman2200/kinetic-pov/internal/asset"
)

func main() {
	app := cli.NewApp()

	app.Name = "povconvert"
	app.Usage = "build and inspect POV image packs"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}
	app.Before = func(c *cli.Context) error {
		zerolog.TimeFieldFormat = time.RFC3339
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if c.Bool("verbose") {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		return nil
	}

	numLEDs := &cli.IntFlag{Name: "num-leds", Aliases: []string{"n"}, Value: 16, Usage: "LEDs on the strip"}
	out := &cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "images.pov", Usage: "pack to write"}

	app.Commands = []*cli.Command{
		{
			Name:      "build",
			Usage:     "Convert pictures into a pack, one image per file",
			ArgsUsage: "FILE...",
			Flags: []cli.Flag{
				numLEDs, out,
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "force palette1 | palette4 | palette8 | truecolor"},
				&cli.IntFlag{Name: "max-colors", Usage: "quantize to at most this many colours (0 keeps all)"},
				&cli.BoolFlag{Name: "gamma", Usage: "convert sRGB input to linear light"},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				t, err := build(c.Args().Slice(), asset.ConvertOptions{
					NumLEDs:   c.Int("num-leds"),
					Format:    c.String("format"),
					MaxColors: c.Int("max-colors"),
					Gamma:     c.Bool("gamma"),
				})
				if err != nil {
					return cli.Exit(err, 1)
				}
				if err := asset.Save(c.String("out"), t); err != nil {
					return cli.Exit(err, 1)
				}
				log.Info().Str("out", c.String("out")).Int("images", len(t.Images)).Msg("pack written")
				return nil
			},
		},
		{
			Name:  "builtin",
			Usage: "Write the built-in demo images as a pack",
			Flags: []cli.Flag{numLEDs, out},
			Action: func(c *cli.Context) error {
				t, err := asset.Builtin(c.Int("num-leds"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				if err := asset.Save(c.String("out"), t); err != nil {
					return cli.Exit(err, 1)
				}
				return nil
			},
		},
		{
			Name:      "info",
			Usage:     "List the images in a pack",
			ArgsUsage: "PACK",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}
				t, err := asset.Load(c.Args().First())
				if err != nil {
					return cli.Exit(err, 1)
				}
				return describe(os.Stdout, t)
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// build converts each picture into one image of the table.
func build(paths []string, o asset.ConvertOptions) (asset.Table, error) {
	t := asset.Table{NumLEDs: o.NumLEDs}
	for _, p := range paths {
		img, err := decode(p)
		if err != nil {
			return asset.Table{}, err
		}
		o.Name = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		im, err := asset.Convert(img, o)
		if err != nil {
			return asset.Table{}, err
		}
		log.Debug().Str("file", p).Str("format", im.Format.String()).Int("lines", im.Lines).Msg("converted")
		t.Images = append(t.Images, im)
	}
	return t, t.Check()
}

func decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

func describe(w io.Writer, t asset.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "LEDS\t%d\n", t.NumLEDs)
	fmt.Fprintln(tw, "#\tNAME\tFORMAT\tLINES\tCOLOURS\tBYTES")
	for i, img := range t.Images {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\n",
			i, img.Name, img.Format, img.Lines, len(img.Palette)/3, len(img.Palette)+len(img.Pixels))
	}
	return tw.Flush()
}
