package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

func TestRemove(c Config) {

	stop := CreateServer(&c)
	defer stop()

	tableName := CreateTable(c.Base, "static")

	transport := &http.Transport{
		MaxConnsPerHost:     1024,
		MaxIdleConns:        1024,
		MaxIdleConnsPerHost: 1024,
	}
	defer transport.CloseIdleConnections()

	client := &http.Client{
		Transport: transport,
		Timeout:   10 * time.Second,
	}

	{
		fmt.Println("Preload records...")
		r, w := io.Pipe()

		encoder := json.NewEncoder(w)
		go func() {
			for i := int64(0); i < c.N; i++ {
				encoder.Encode(SyntheticRecord(i, c.Prefix))
			}
			w.Close()
		}()

		req, err := http.NewRequest("POST", c.Base+"/v1/tables/"+tableName+":insert", r)
		if err != nil {
			fmt.Println("ERROR: new request:", err.Error())
			os.Exit(3)
		}

		resp, err := client.Do(req)
		if err != nil {
			fmt.Println("ERROR: do request:", err.Error())
			os.Exit(4)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}

	removeURL := fmt.Sprintf("%s/v1/tables/%s:remove", c.Base, tableName)

	next := int64(-1)
	t0 := time.Now()
	Parallel(c.Workers, func() {
		for {
			id := atomic.AddInt64(&next, 1)
			if id >= c.N {
				return
			}

			body := fmt.Sprintf(`{"id":%d}`, id)
			req, err := http.NewRequest(http.MethodPost, removeURL, strings.NewReader(body))
			if err != nil {
				fmt.Println("ERROR: new request:", err.Error())
				return
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := client.Do(req)
			if err != nil {
				fmt.Println("ERROR: do request:", err.Error())
				return
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				fmt.Println("ERROR: bad status:", resp.Status)
			}
		}
	})

	took := time.Since(t0)
	fmt.Println("removed:", c.N)
	fmt.Println("took:", took)
	fmt.Printf("Throughput: %.2f rows/sec\n", float64(c.N)/took.Seconds())

	t1 := time.Now()
	req, _ := http.NewRequest(http.MethodPost, c.Base+"/v1/tables/"+tableName+":compact", nil)
	resp, err := client.Do(req)
	if err != nil {
		fmt.Println("ERROR: compact:", err.Error())
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	fmt.Println("compact took:", time.Since(t1))
}
