// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package arborbench provides a load-generation tool for the arbor
// item server.  It drives a remote server through the typed item
// clients, creating, listing, finding, and deleting orders.
package main

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/satori/go.uuid"
	"github.com/urfave/cli"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/httpapi"
	"github.com/treeline-io/go-arbor/itemclient"
)

type benchItems struct {
	Client      itemclient.Client
	Concurrency int
}

func (bench *benchItems) Run(runner func()) {
	wg := sync.WaitGroup{}
	wg.Add(bench.Concurrency)
	for i := 0; i < bench.Concurrency; i++ {
		go func() {
			defer wg.Done()
			runner()
		}()
	}
	wg.Wait()
}

var bench benchItems

var addItems = cli.Command{
	Name:  "add",
	Usage: "create many orders",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of orders to create",
		},
	},
	Action: func(c *cli.Context) {
		count := c.Int("count")
		numbers := make(chan int)
		go func() {
			for i := 1; i <= count; i++ {
				numbers <- i
			}
			close(numbers)
		}()
		ctx := context.Background()
		bench.Run(func() {
			for <-numbers != 0 {
				data := arbor.DataDict{
					"batch":  uuid.NewV4().String(),
					"status": "open",
				}
				bench.Client.Create(ctx, data, nil)
			}
		})
	},
}

var listItems = cli.Command{
	Name:  "list",
	Usage: "repeatedly page through all of the orders",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "limit",
			Value: 100,
			Usage: "fetch this many orders per request",
		},
	},
	Action: func(c *cli.Context) {
		limit := c.Int("limit")
		ctx := context.Background()
		bench.Run(func() {
			offset := 0
			for {
				q := arbor.ItemQuery{Limit: limit, Offset: offset}
				items, err := bench.Client.All(ctx, q, nil)
				if err != nil || len(items) == 0 {
					break
				}
				offset += len(items)
			}
		})
	},
}

var findItems = cli.Command{
	Name:  "find",
	Usage: "run a server-side finder over the orders",
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "finder",
			Value: "byStatus",
			Usage: "name of the registered finder",
		},
		cli.StringFlag{
			Name:  "status",
			Value: "open",
			Usage: "status value to search for",
		},
	},
	Action: func(c *cli.Context) {
		finder := c.String("finder")
		fp := arbor.FinderParams{"status": c.String("status")}
		ctx := context.Background()
		bench.Run(func() {
			bench.Client.Find(ctx, finder, fp, nil)
		})
	},
}

var clearItems = cli.Command{
	Name:  "clear",
	Usage: "delete all of the orders",
	Action: func(c *cli.Context) {
		ctx := context.Background()
		for {
			items, err := bench.Client.All(ctx, arbor.ItemQuery{}, nil)
			if err != nil || len(items) == 0 {
				break
			}
			keys := make(chan arbor.Key)
			go func() {
				for _, item := range items {
					keys <- item.Key.Key()
				}
				close(keys)
			}()
			bench.Run(func() {
				for key := range keys {
					bench.Client.Remove(ctx, key)
				}
			})
		}
	},
}

func main() {
	app := cli.NewApp()
	app.Usage = "benchmark the arbor item server"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "url",
			Value: "http://localhost:5980/",
			Usage: "base URL of the item server",
		},
		cli.IntFlag{
			Name:  "concurrency",
			Value: runtime.NumCPU(),
			Usage: "run this many requests in parallel",
		},
	}
	app.Commands = []cli.Command{
		addItems,
		listItems,
		findItems,
		clearItems,
	}
	app.Before = func(c *cli.Context) error {
		rq, err := httpapi.New(c.String("url"))
		if err != nil {
			return fmt.Errorf("could not create HTTP client: %v", err)
		}
		bench.Client, err = itemclient.NewPItem(rq, "order", []string{"orders"})
		if err != nil {
			return err
		}
		bench.Concurrency = c.Int("concurrency")
		return nil
	}
	app.RunAndExitOnError()
}
