package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"impractical.co/folio"
	"impractical.co/folio/markdown"
)

type cli struct {
	Log logConfig `embed:"" prefix:"log-"`

	Render renderCmd `cmd:"" help:"Render a page, wrapped in its layout."`
	Inline inlineCmd `cmd:"" help:"Render a template given on the command line."`
}

// run parses args and runs the selected command, writing rendered output to
// out and logs to errOut.
func run(ctx context.Context, out, errOut io.Writer, exit func(code int), args ...string) error {
	var c cli

	parser, err := kong.New(&c,
		kong.Name("folio"),
		kong.Description("Render mustache-style pages, layouts, and partials."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(out, errOut),
		kong.BindTo(out, (*io.Writer)(nil)),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = folio.LoggingContext(ctx, c.Log.logger(errOut))
	ktx.BindTo(ctx, (*context.Context)(nil))

	return ktx.Run()
}

// engineFlags are shared by every command that builds an Engine.
type engineFlags struct {
	Dir      string   `default:"."           help:"Directory holding the templates."                 short:"d" type:"existingdir"`
	Ext      []string `default:".html,.tmpl" help:"Extensions tried when a template id has none."`
	Args     string   `                      help:"YAML file holding the page args."                type:"existingfile"`
	Defaults string   `                      help:"YAML file holding the default args."             type:"existingfile"`
	MaxDepth int      `default:"64"          help:"How deeply partials and forEach blocks may nest."`
	Markdown bool     `default:"true"        help:"Register the markdown filter."                   negatable:""`
}

func (f *engineFlags) engine() *folio.Engine {
	opts := []folio.Option{folio.WithMaxDepth(f.MaxDepth)}
	if f.Markdown {
		opts = append(opts, markdown.Option())
	}
	return folio.New(folio.NewFSSource(os.DirFS(f.Dir), f.Ext...), opts...)
}

func (f *engineFlags) args() (folio.Args, folio.Args, error) {
	args, err := loadArgs(f.Args)
	if err != nil {
		return nil, nil, err
	}
	defaults, err := loadArgs(f.Defaults)
	if err != nil {
		return nil, nil, err
	}
	return args, defaults, nil
}

type renderCmd struct {
	Flags engineFlags `embed:""`

	Page string `arg:"" help:"Identifier of the page to render."`
}

// Run renders the page.
func (c *renderCmd) Run(ctx context.Context, out io.Writer) error {
	args, defaults, err := c.Flags.args()
	if err != nil {
		return err
	}
	res, err := c.Flags.engine().Result(ctx, folio.PageResult{
		Page:     c.Page,
		Args:     args,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, res)
	return err
}

type inlineCmd struct {
	Flags engineFlags `embed:""`

	Template string `arg:"" help:"Template text to render."`
}

// Run renders the template text. Defaults and args are layered the same way
// they are for pages.
func (c *inlineCmd) Run(ctx context.Context, out io.Writer) error {
	args, defaults, err := c.Flags.args()
	if err != nil {
		return err
	}
	engine := c.Flags.engine()
	if len(defaults) > 0 {
		merged := folio.Args{}
		for k, v := range defaults {
			merged[k] = v
		}
		for k, v := range args {
			merged[k] = v
		}
		args = merged
	}
	res, err := engine.RenderInline(ctx, c.Template, args)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, res)
	return err
}

// loadArgs reads a YAML mapping from path. An empty path means no args.
func loadArgs(path string) (folio.Args, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	var args folio.Args
	if err := yaml.Unmarshal(data, &args); err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	return args, nil
}
