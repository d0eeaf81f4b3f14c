package lsmgo_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/lsmgo"
)

// Example demonstrates basic inserts, lookups and deletes.
func Example() {
	tree, err := lsmgo.New[string, int]()
	if err != nil {
		log.Fatal(err)
	}

	if err := tree.Insert("apple", 1); err != nil {
		log.Fatal(err)
	}
	if err := tree.Insert("banana", 2); err != nil {
		log.Fatal(err)
	}

	value, ok, err := tree.Get("apple")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(value, ok)

	if err := tree.Delete("apple"); err != nil {
		log.Fatal(err)
	}

	_, ok, err = tree.Get("apple")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(ok)
	// Output:
	// 1 true
	// false
}

// Example_rangeScan demonstrates an inclusive ordered scan across flushed tables.
func Example_rangeScan() {
	tree, err := lsmgo.New[int, string](
		lsmgo.WithMemtableSize(4), // small memtable forces flushes
	)
	if err != nil {
		log.Fatal(err)
	}

	for i := 1; i <= 10; i++ {
		if err := tree.Insert(i, fmt.Sprintf("value-%d", i)); err != nil {
			log.Fatal(err)
		}
	}

	items, err := tree.Range(3, 6)
	if err != nil {
		log.Fatal(err)
	}
	for _, item := range items {
		fmt.Println(item.Key, item.Value)
	}
	// Output:
	// 3 value-3
	// 4 value-4
	// 5 value-5
	// 6 value-6
}

// Example_compactionStrategy demonstrates selecting a compaction strategy
// and triggering compaction manually.
func Example_compactionStrategy() {
	tree, err := lsmgo.New[string, string](
		lsmgo.WithCompactionStrategy(lsmgo.SizeTiered),
	)
	if err != nil {
		log.Fatal(err)
	}

	if err := tree.Insert("key", "value"); err != nil {
		log.Fatal(err)
	}
	if err := tree.Flush(); err != nil {
		log.Fatal(err)
	}
	if err := tree.Compact(0); err != nil {
		log.Fatal(err)
	}

	fmt.Println(tree.Strategy())
	// Output: size-tiered
}
