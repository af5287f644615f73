package api

import (
	"fmt"

	"momentumlab/internal/app"

	"github.com/gin-gonic/gin"
)

type runRequest struct {
	Tests       []string      `json:"tests"`
	SkipBattery bool          `json:"skip_battery"`
	Overrides   app.Overrides `json:"overrides"`
}

type runResponse struct {
	Metadata any               `json:"metadata"`
	Errors   map[string]string `json:"errors"`
}

func (m ApiHandler) run(c *gin.Context) {
	var requestBody runRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&requestBody); err != nil {
			returnErrorJsonCode(fmt.Errorf("failed to read request body: %w", err), c, 400)
			return
		}
	}

	m.runMu.Lock()
	defer m.runMu.Unlock()

	out, err := m.LabRunner.Run(c.Request.Context(), app.RunInput{
		Tests:       requestBody.Tests,
		SkipBattery: requestBody.SkipBattery,
		Overrides:   requestBody.Overrides,
	})
	if err != nil {
		returnErrorJson(err, c)
		return
	}
	m.store.set(out.Report)

	errs := map[string]string{}
	if out.Battery != nil {
		errs = out.Battery.Errors
	}
	c.JSON(200, runResponse{
		Metadata: out.Report["metadata"],
		Errors:   errs,
	})
}
