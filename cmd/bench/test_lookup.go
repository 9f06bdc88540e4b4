package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fulldump/quickbase/table"
)

// TestLookup compares the table against a naive slice filter in process
func TestLookup(c Config) {

	fmt.Println("Populating", c.N, "records...")
	records := make([]table.Record, 0, c.N)
	for i := int64(0); i < c.N; i++ {
		records = append(records, SyntheticRecord(i, c.Prefix))
	}

	static := table.NewTable()
	dynamic := table.NewDynamicTable()
	dynamic.AddColumn("name", table.String(""))
	dynamic.AddColumn("bucket", table.Int(0))

	t0 := time.Now()
	for _, r := range records {
		static.AddRecord(r)
	}
	tookStatic := time.Since(t0)

	t0 = time.Now()
	for _, r := range records {
		dynamic.AddRecord(table.DynamicRecord{ID: r.ID, Fields: map[string]table.Value{
			"name":   table.String(r.Column1),
			"bucket": table.Int(r.Column2),
		}})
	}
	tookDynamic := time.Since(t0)

	t0 = time.Now()
	static.CreateIndex(table.Column2)
	dynamic.CreateIndex("bucket")
	tookIndex := time.Since(t0)

	fmt.Println("load static:", tookStatic)
	fmt.Println("load dynamic:", tookDynamic)
	fmt.Println("create indexes:", tookIndex)

	key := uint64(c.N / 2)
	keyString := strconv.FormatUint(key, 10)
	bucket := int64(key % 100)
	bucketString := strconv.FormatInt(bucket, 10)
	substring := c.Prefix + "1"

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "operation\ttable\tnaive\tspeedup\t")

	row := func(name string, indexed, naive time.Duration) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1fx\t\n", name, indexed, naive, float64(naive)/float64(max(indexed, 1)))
	}

	row("primary key",
		Measure(c.Iterations, func() { static.FindMatching(table.Column0, keyString) }),
		Measure(c.Iterations, func() { naiveFilter(records, func(r *table.Record) bool { return r.ID == key }) }),
	)
	row("indexed column2",
		Measure(c.Iterations, func() { static.FindMatching(table.Column2, bucketString) }),
		Measure(c.Iterations, func() { naiveFilter(records, func(r *table.Record) bool { return r.Column2 == bucket }) }),
	)
	row("dynamic indexed",
		Measure(c.Iterations, func() { dynamic.FindMatching("bucket", table.Int(bucket)) }),
		Measure(c.Iterations, func() { naiveFilter(records, func(r *table.Record) bool { return r.Column2 == bucket }) }),
	)
	row("substring column1",
		Measure(1+c.Iterations/100, func() { static.FindMatching(table.Column1, substring) }),
		Measure(1+c.Iterations/100, func() {
			naiveFilter(records, func(r *table.Record) bool { return strings.Contains(r.Column1, substring) })
		}),
	)

	// delete every tenth record softly, then compact once
	t0 = time.Now()
	for id := int64(0); id < c.N; id += 10 {
		static.DeleteRecordByID(uint64(id), false)
	}
	tookDelete := time.Since(t0)
	t0 = time.Now()
	static.CompactRecords()
	tookCompact := time.Since(t0)

	t0 = time.Now()
	remaining := naiveFilter(records, func(r *table.Record) bool { return r.ID%10 != 0 })
	tookNaiveDelete := time.Since(t0)

	row("soft delete + compact", tookDelete+tookCompact, tookNaiveDelete)
	tw.Flush()

	fmt.Println("active:", static.ActiveRecordsCount(), "total:", static.TotalRecordsCount(), "naive:", len(remaining))
}

func naiveFilter(records []table.Record, match func(r *table.Record) bool) []table.Record {
	result := []table.Record{}
	for i := range records {
		if match(&records[i]) {
			result = append(result, records[i])
		}
	}
	return result
}
