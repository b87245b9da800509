package crdt_test

import (
	"fmt"

	"github.com/hiddenmemory/crdt/crdt"
)

func ExampleGSet_Insert() {

	set := crdt.NewGSet[string]()

	op, novel := set.Insert("a")
	fmt.Println(op, novel, set.Contains("a"), set.Len())

	_, novel = set.Insert("a")
	fmt.Println(novel, set.Len())

	// Output:
	// insert(a) true true 1
	// false 1
}

func ExampleGSet_Merge() {

	local := crdt.NewGSet(1)
	remote := crdt.NewGSet(2)

	local.Merge(remote)
	fmt.Println(local.Contains(1), local.Contains(2), local.Len())

	// Output: true true 2
}

func ExampleGSet_Apply() {

	local := crdt.NewGSet[int]()
	remote := crdt.NewGSet[int]()

	if op, novel := remote.Insert(13); novel {
		local.Apply(op)
	}

	fmt.Println(local.Contains(13))

	// Output: true
}

func ExampleGSet_Compare() {

	a := crdt.NewGSet(1, 2)
	b := crdt.NewGSet(2, 3)
	fmt.Println(a.Compare(b), a.Equal(b))

	empty := crdt.NewGSet[int]()
	one := crdt.NewGSet(1)
	fmt.Println(empty.Compare(one), one.Compare(empty))

	// Output:
	// incomparable false
	// less greater
}
