package syn_test

import (
	"fmt"

	"github.com/FocuswithJustin/quill/core/syn"
)

func ExampleParse() {
	q, err := syn.Parse("select name from person where age > 18 order by name")
	if err != nil {
		panic(err)
	}
	fmt.Println(q)
	// Output: SELECT name FROM person WHERE age > 18 ORDER BY name;
}

func ExampleRender() {
	src := "SELECT ) FROM person"
	_, err := syn.Parse(src)
	fmt.Println(syn.Render(err, src))
	// Output:
	// Unexpected token ')' expected a value (while parsing select statement)
	//  --> [1:8]
	//   |
	// 1 | SELECT ) FROM person
	//   |        ^
}

func ExampleValue() {
	v, err := syn.Value("{ total: 1 + 2 * 3, tags: ['a', 'b',] }")
	if err != nil {
		panic(err)
	}
	fmt.Println(v)
	// Output: { total: 1 + 2 * 3, tags: ['a', 'b'] }
}

func ExampleThing() {
	t, err := syn.Thing("person:⟨tobie morgan⟩")
	if err != nil {
		panic(err)
	}
	fmt.Println(t.Table, t.ID)
	// Output: person 'tobie morgan'
}
