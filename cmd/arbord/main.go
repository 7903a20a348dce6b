// Copyright 2024-2026 Treeline Networks, Inc.
// This software is released under an MIT/X11 open source license.

// Package main provides the arbor item server daemon.  It serves
// the hierarchy described in its configuration file over the item
// REST API, storing data in memory or in PostgreSQL.
package main

import (
	"errors"
	"flag"
	"io/ioutil"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/treeline-io/go-arbor/arbor"
	"github.com/treeline-io/go-arbor/backend"
)

func main() {
	httpBind := flag.String("http", ":5980",
		"[ip]:port for HTTP REST interface")
	storage := backend.Backend{Implementation: "memory", Address: ""}
	flag.Var(&storage, "backend", "impl[:address] of the storage backend")
	config := flag.String("config", "", "hierarchy configuration YAML file")
	logRequests := flag.Bool("log-requests", false, "log all requests")
	flag.Parse()

	if *config == "" {
		logrus.Fatal("A hierarchy configuration file is required (-config)")
		return
	}
	defs, err := loadDefinitions(*config)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not load YAML configuration")
		return
	}

	store, err := storage.Store(defs)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not create storage backend")
		return
	}

	var reqLogger *logrus.Logger
	if *logRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	logrus.WithFields(logrus.Fields{
		"bind":    *httpBind,
		"backend": storage.String(),
	}).Info("Starting item server")
	server := &HTTP{
		store:  store,
		defs:   defs,
		laddr:  *httpBind,
		logger: reqLogger,
	}
	if err = server.Serve(); err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("HTTP server failed")
	}
}

// loadDefinitions reads a hierarchy definition list from a YAML
// file.  The file holds a top-level "definitions" key with one
// entry per item type:
//
//	definitions:
//	  - keyType: order
//	    pathNames: [orders]
//	  - keyType: orderPhase
//	    pathNames: [orders, orderPhases]
func loadDefinitions(filename string) ([]arbor.Definition, error) {
	bytes, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var config struct {
		Definitions []arbor.Definition `yaml:"definitions"`
	}
	if err = yaml.Unmarshal(bytes, &config); err != nil {
		return nil, err
	}
	if len(config.Definitions) == 0 {
		return nil, errors.New("configuration defines no item types")
	}
	return config.Definitions, nil
}
