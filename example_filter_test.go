package folio_test

import (
	"context"
	"fmt"
	"strings"

	"impractical.co/folio"
)

// humanize joins a list the way you'd write it in a sentence.
var humanize = folio.Filter{
	Func: func(_ *folio.Call, in folio.Value, _ []folio.Value) (folio.Value, error) {
		items, ok := in.AsSlice()
		if !ok {
			return folio.Null, fmt.Errorf("%w: humanize expects an array", folio.ErrTypeMismatch)
		}
		words := make([]string, len(items))
		for i, item := range items {
			words[i] = item.String()
		}
		if len(words) < 3 {
			return folio.FromString(strings.Join(words, " and ")), nil
		}
		words[len(words)-1] = "and " + words[len(words)-1]
		return folio.FromString(strings.Join(words, ", ")), nil
	},
}

// applesAndOranges swaps every apple for an orange.
var applesAndOranges = folio.Filter{
	Func: func(_ *folio.Call, in folio.Value, _ []folio.Value) (folio.Value, error) {
		items, _ := in.AsSlice()
		out := make([]folio.Value, len(items))
		for pos, fruit := range items {
			out[pos] = fruit
			if strings.ToLower(fruit.String()) == "apples" {
				out[pos] = folio.FromString("oranges")
			}
		}
		return folio.FromSlice(out...), nil
	},
}

func ExampleWithFilter() {
	var templates = folio.MapSource{
		"home": `Hello, {{ name }}. This is my home page. I like {{ fruits | applesAndOranges | humanize }}.`,
	}

	engine := folio.New(templates,
		folio.WithFilter("humanize", humanize),
		folio.WithFilter("applesAndOranges", applesAndOranges),
	)
	out, err := engine.Render(context.Background(), "home", folio.Args{
		"name":   "Visitor",
		"fruits": []string{"apples", "bananas", "oranges"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(out)

	//Output:
	// Hello, Visitor. This is my home page. I like oranges, bananas, and oranges.
}
