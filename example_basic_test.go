package folio_test

import (
	"context"
	"fmt"
	"log/slog"

	"impractical.co/folio"
)

func ExampleEngine_Render() {
	// normally you'd use something like embed.FS or os.DirFS for this
	// for example purposes, we're just hardcoding values
	var templates = staticFS{
		"_layout.html": `<!doctype html>
<html lang="en">
	<head>
		<title>{{ title }}</title>
	</head>
	<body>
		{{ page }}
	</body>
</html>`,
		"index.html": `<h1>{{ title }}</h1>
		<p>Hello, {{ name | otherwise('stranger') }}.</p>`,
	}

	// usually the context comes from the request, but here we're building it from scratch and adding a logger
	ctx := folio.LoggingContext(context.Background(), slog.Default())

	engine := folio.New(folio.NewFSSource(templates), folio.WithDefaults(folio.Args{
		"title": "My Example Site",
	}))
	out, err := engine.Render(ctx, "index", folio.Args{"name": "Visitor"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)

	//Output:
	// <!doctype html>
	// <html lang="en">
	// 	<head>
	// 		<title>My Example Site</title>
	// 	</head>
	// 	<body>
	// 		<h1>My Example Site</h1>
	// 		<p>Hello, Visitor.</p>
	// 	</body>
	// </html>
}

func ExampleEngine_RenderInline() {
	engine := folio.New(folio.MapSource{})
	out, err := engine.RenderInline(context.Background(), "<ul>{{ '<li>{{ it }}</li>' | forEach(fruits) }}</ul>", folio.Args{
		"fruits": []string{"apples", "bananas", "oranges"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)

	//Output:
	// <ul><li>apples</li><li>bananas</li><li>oranges</li></ul>
}
