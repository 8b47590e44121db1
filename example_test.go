package mingo_test

import (
	"fmt"

	mingo "github.com/lackofbrilliance/mingo"
)

func ExampleFind() {
	collection := mingo.A{
		mingo.M{"name": "ada", "age": 36},
		mingo.M{"name": "bob", "age": 17},
		mingo.M{"name": "cid", "age": 52},
	}

	c, _ := mingo.Find(collection, mingo.M{"age": mingo.M{"$gte": 18}})
	c.Sort(mingo.M{"age": 1})

	_ = c.ForEach(func(doc any) {
		fmt.Println(doc.(mingo.M)["name"])
	})
	// Output:
	// ada
	// cid
}

func ExampleAggregate() {
	collection := mingo.A{
		mingo.M{"item": "a", "qty": 2},
		mingo.M{"item": "b", "qty": 3},
		mingo.M{"item": "a", "qty": 5},
	}

	res, _ := mingo.Aggregate(collection, mingo.A{
		mingo.M{"$group": mingo.M{"_id": "$item", "total": mingo.M{"$sum": "$qty"}}},
		mingo.M{"$sort": mingo.M{"total": -1}},
	})
	for _, doc := range res {
		m := doc.(mingo.M)
		fmt.Printf("%v: %v\n", m["_id"], m["total"])
	}
	// Output:
	// a: 7
	// b: 3
}

func ExampleQuery_Test() {
	q, _ := mingo.NewQuery(mingo.M{"tags": "urgent"})

	ok, _ := q.Test(mingo.M{"tags": mingo.A{"urgent", "bug"}})
	fmt.Println(ok)
	// Output:
	// true
}
