package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/quickbase/bootstrap"
	"github.com/fulldump/quickbase/configuration"
	"github.com/fulldump/quickbase/logging"
)

var banner = `
  ___        _      _    ____                 
 / _ \ _   _(_) ___| | _| __ )  __ _ ___  ___ 
| | | | | | | |/ __| |/ /  _ \ / _' / __|/ _ \
| |_| | |_| | | (__|   <| |_) | (_| \__ \  __/
 \__\_\\__,_|_|\___|_|\_\____/ \__,_|___/\___|
                                 version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(&c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	logger, err := logging.New(c.LogLevel)
	if err != nil {
		fmt.Println("ERROR:", err.Error())
		os.Exit(1)
	}

	start, _, err := bootstrap.Bootstrap(&c, logger)
	if err != nil {
		logger.Error("bootstrap", "err", err)
		os.Exit(-1)
	}

	start()
}
