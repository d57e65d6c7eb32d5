// Package folio provides a template engine that composes documents out of
// pages, layouts, and partials written in a small mustache-style language.
//
// A template is literal text with {{ }} expressions in it. An expression is
// a value, optionally piped through filters:
//
//	{{ title }}
//	{{ author.name | upper }}
//	{{ tagline | otherwise('No tagline yet') }}
//	{{ 'card' | partial({ title: title, tag: headingTag }) }}
//	{{ '<li>{{ it }}</li>' | forEach(items) }}
//
// Values can be identifiers, dotted paths, strings in single or double
// quotes, numbers, true, false, null, arrays ([a, b]), and objects
// ({ k: v }). Filter arguments are expressions too, and are evaluated in the
// same scope as the expression they're part of. Everything outside {{ }} is
// written to the output exactly as it appears, whitespace included.
//
// Templates are identified by path-like ids and read through a Source, for
// example an FSSource wrapping an embed.FS or os.DirFS. The Engine parses
// each template once and caches it in its Registry.
//
// To render a page, call Render or Result. The page is rendered first, then
// the nearest _layout template, searching from the page's directory up to
// the root, is rendered with the page's output available as {{ page }}.
// Pages without a layout are returned as-is.
//
// Names are resolved through a chain of scopes. The outermost holds the
// default args (see WithDefaults and PageResult.Defaults) and is visible
// everywhere. The page body gets its own args on top of that. Each partial
// and each forEach repetition gets a new scope holding its arguments, on top
// of the scope of the expression that invoked it. A name that isn't bound
// anywhere is null, which the otherwise filter can replace.
//
// Filters beyond the built-in ones (otherwise, upper, lower, join, json,
// length, partial, forEach) are added with WithFilter; the markdown
// subpackage provides one that converts Markdown to HTML.
package folio
