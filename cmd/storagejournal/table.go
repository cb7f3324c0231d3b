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

package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
)

// printScenarioTable renders a scenario's narrated steps as a two-column
// table, with the terminal error (if any) appended as a final row.
func printScenarioTable(name string, result *scenarioResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{name, "step"})
	table.SetAutoWrapText(false)
	for i, step := range result.steps {
		table.Append([]string{fmt.Sprintf("%d", i+1), step})
	}
	if result.err != nil {
		table.Append([]string{"!", result.err.Error()})
	}
	table.Render()
}
