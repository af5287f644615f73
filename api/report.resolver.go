package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

var errNoReport = fmt.Errorf("no report available, POST /run first")

func section(report map[string]any, key string) map[string]any {
	if m, ok := report[key].(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func (m ApiHandler) getReport(c *gin.Context) {
	report, ok := m.store.get()
	if !ok {
		returnErrorJsonCode(errNoReport, c, 404)
		return
	}
	c.JSON(200, report)
}

type strategyListItem struct {
	Name    string         `json:"name"`
	Summary map[string]any `json:"summary"`
}

func (m ApiHandler) listStrategies(c *gin.Context) {
	report, ok := m.store.get()
	if !ok {
		returnErrorJsonCode(errNoReport, c, 404)
		return
	}

	summary := section(report, "summary")
	names, _ := section(report, "metadata")["strategies"].([]any)
	out := []strategyListItem{}
	for _, n := range names {
		name, _ := n.(string)
		s, _ := summary[name].(map[string]any)
		out = append(out, strategyListItem{Name: name, Summary: s})
	}
	c.JSON(200, out)
}

type strategyResponse struct {
	Name       string         `json:"name"`
	Summary    any            `json:"summary"`
	Yearly     any            `json:"yearly"`
	Cumulative any            `json:"cumulative"`
	Robustness map[string]any `json:"robustness"`
}

func (m ApiHandler) getStrategy(c *gin.Context) {
	report, ok := m.store.get()
	if !ok {
		returnErrorJsonCode(errNoReport, c, 404)
		return
	}

	name := c.Param("name")
	summary, ok := section(report, "summary")[name]
	if !ok {
		returnErrorJsonCode(fmt.Errorf("unknown strategy %q", name), c, 404)
		return
	}

	robust := map[string]any{}
	for test, results := range section(report, "robustness") {
		if byStrategy, ok := results.(map[string]any); ok {
			if r, ok := byStrategy[name]; ok {
				robust[test] = r
			}
		}
	}

	c.JSON(200, strategyResponse{
		Name:       name,
		Summary:    summary,
		Yearly:     section(report, "yearly")[name],
		Cumulative: section(section(report, "monthly_data"), "cumulative_returns")[name],
		Robustness: robust,
	})
}

func (m ApiHandler) getRobustness(c *gin.Context) {
	report, ok := m.store.get()
	if !ok {
		returnErrorJsonCode(errNoReport, c, 404)
		return
	}

	test := c.Param("test")
	if msg, ok := section(report, "errors")[test]; ok {
		c.JSON(200, gin.H{"test": test, "error": msg})
		return
	}
	result, ok := section(report, "robustness")[test]
	if !ok {
		returnErrorJsonCode(fmt.Errorf("no result for robustness test %q", test), c, 404)
		return
	}
	c.JSON(200, gin.H{"test": test, "result": result})
}
