package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/fulldump/goconfig"
)

type Config struct {
	Test       string `usage:"name of the test: ALL | LOOKUP | INSERT | REMOVE"`
	Base       string `usage:"base URL, empty starts an embedded server"`
	N          int64  `usage:"number of records"`
	Iterations int    `usage:"repetitions of every timed lookup"`
	Prefix     string `usage:"text prefix of the synthetic string columns"`
	Workers    int    `usage:"number of workers"`
	LogLevel   string `usage:"log level of the embedded server"`
}

func main() {

	c := Config{
		Test:       "lookup",
		Base:       "",
		N:          100_000,
		Iterations: 1_000,
		Prefix:     "user",
		Workers:    16,
		LogLevel:   "warn",
	}
	goconfig.Read(&c)

	switch strings.ToUpper(c.Test) {
	case "ALL":
		TestLookup(c)
		TestInsert(c)
		TestRemove(c)
	case "LOOKUP":
		TestLookup(c)
	case "INSERT":
		TestInsert(c)
	case "REMOVE":
		TestRemove(c)
	default:
		log.Fatalf("Unknown test %s", c.Test)
	}

	fmt.Println("Done")
}
