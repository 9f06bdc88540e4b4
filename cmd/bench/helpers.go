package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/fulldump/quickbase/bootstrap"
	"github.com/fulldump/quickbase/configuration"
	"github.com/fulldump/quickbase/logging"
	"github.com/fulldump/quickbase/table"
)

type JSON = map[string]any

func Parallel(workers int, f func()) {
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f()
		}()
	}
	wg.Wait()
}

// SyntheticRecord is the i-th benchmark record
func SyntheticRecord(i int64, prefix string) table.Record {
	return table.Record{
		ID:      uint64(i),
		Column1: prefix + strconv.FormatInt(i, 10),
		Column2: i % 100,
		Column3: strconv.FormatInt(i, 10) + prefix,
	}
}

// Measure runs f n times and returns the mean duration of one run
func Measure(n int, f func()) time.Duration {
	if n <= 0 {
		n = 1
	}
	t0 := time.Now()
	for i := 0; i < n; i++ {
		f()
	}
	return time.Since(t0) / time.Duration(n)
}

func CreateTable(base, kind string) string {

	name := "bench-" + strconv.FormatInt(time.Now().UnixNano(), 10)

	payload, _ := json.Marshal(JSON{"name": name, "kind": kind})

	req, _ := http.NewRequest("POST", base+"/v1/tables", bytes.NewReader(payload))
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("ERROR: create table:", err.Error())
		os.Exit(2)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusCreated {
		fmt.Println("ERROR: create table:", resp.Status)
		os.Exit(2)
	}

	return name
}

// CreateServer boots an embedded server when no base url is configured. The
// returned stop is a no-op for remote servers.
func CreateServer(c *Config) (stop func()) {
	if c.Base != "" {
		return func() {}
	}

	conf := configuration.Default()
	conf.ShowBanner = false
	conf.EnableCompression = false
	c.Base = "http://" + conf.HttpAddr

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}

	start, stop, err := bootstrap.Bootstrap(&conf, logger)
	if err != nil {
		fmt.Println("ERROR: bootstrap:", err.Error())
		os.Exit(1)
	}
	go start()

	waitOperating(c.Base)

	return stop
}

func waitOperating(base string) {
	for i := 0; i < 100; i++ {
		resp, err := http.Get(base + "/v1/tables")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	fmt.Println("ERROR: server is not operating")
	os.Exit(2)
}
