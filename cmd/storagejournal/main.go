// Copyright 2024 The storagejournal Authors
// This file is part of the storagejournal library.
//
// The storagejournal library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The storagejournal library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the storagejournal library. If not, see <http://www.gnu.org/licenses/>.

// Command storagejournal is a demo/debug CLI that replays the scripted
// scenarios a transactional storage journal must satisfy, narrating each
// step against a real in-memory backing store.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ethj/storagejournal/log"
)

var app = cli.NewApp()

func init() {
	app.Name = "storagejournal"
	app.Usage = "replay transactional storage journal scenarios"
	app.Commands = []*cli.Command{
		scenarioCommand,
	}
}

var scenarioCommand = &cli.Command{
	Name:  "scenario",
	Usage: "run one or all of the journal's scripted scenarios (S1-S6)",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "name",
			Usage: "scenario to run (S1..S6), or \"all\"",
			Value: "all",
		},
	},
	Action: runScenario,
}

func runScenario(c *cli.Context) error {
	name := c.String("name")
	scenarios := allScenarios()
	if name != "all" {
		s, ok := scenarios[name]
		if !ok {
			return fmt.Errorf("unknown scenario %q", name)
		}
		return report(name, s())
	}
	for _, id := range []string{"S1", "S2", "S3", "S4", "S5", "S6"} {
		if err := report(id, scenarios[id]()); err != nil {
			return err
		}
	}
	return nil
}

func report(name string, result *scenarioResult) error {
	printScenarioTable(name, result)
	if result.err != nil {
		return result.err
	}
	return nil
}

func main() {
	if err := app.Run(os.Args); err != nil {
		log.Error("scenario run failed", "err", err)
		os.Exit(1)
	}
}
