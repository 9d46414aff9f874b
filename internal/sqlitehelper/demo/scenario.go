// Package demo contains the example programs of sqlitehelper: each scenario
// drives a sqlitec.Handle and prints the result code and description after
// every call, carrying on whatever the outcome.
package demo

import (
	"fmt"
	"strings"

	"github.com/orsinium-labs/enum"
)

// Scenario names one example program.
type Scenario enum.Member[string]

var (
	ScenarioCreate  = Scenario{Value: "create"}
	ScenarioInsert  = Scenario{Value: "insert"}
	ScenarioSelect  = Scenario{Value: "select"}
	ScenarioUpdate  = Scenario{Value: "update"}
	ScenarioClosed  = Scenario{Value: "closed"}
	ScenarioUnicode = Scenario{Value: "unicode"}

	Scenarios = enum.New(
		ScenarioCreate,
		ScenarioInsert,
		ScenarioSelect,
		ScenarioUpdate,
		ScenarioClosed,
		ScenarioUnicode,
	)
)

// ParseScenarios converts scenario names, keeping their order. No names means
// every scenario.
func ParseScenarios(names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return Scenarios.Members(), nil
	}

	scenarios := make([]Scenario, 0, len(names))
	for _, name := range names {
		scenario := Scenarios.Parse(strings.ToLower(name))
		if scenario == nil {
			return nil, fmt.Errorf(
				"unknown scenario %q, valid values are: %s",
				name, strings.Join(Scenarios.Values(), ", "),
			)
		}
		scenarios = append(scenarios, *scenario)
	}
	return scenarios, nil
}
