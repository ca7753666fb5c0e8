package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

type BaseHTTPSuite struct {
	suite.Suite
	Config Config
	client *http.Client
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
	if s.Config.BaseURL == "" || s.Config.Token == "" {
		s.T().Skip("E2E_BASE_URL and E2E_TOKEN are required")
	}
	s.client = &http.Client{Timeout: 90 * time.Second}
}

// Step prints a colorized header before running fn as a subtest.
func (s *BaseHTTPSuite) Step(name string, fn func()) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	s.Run(name, fn)
}

// Do sends body as JSON with the configured token and decodes the reply into out.
// token overrides the configured one when not nil.
func (s *BaseHTTPSuite) Do(method, path string, token *string, body, out any) int {
	var reader io.Reader
	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, strings.TrimRight(s.Config.BaseURL, "/")+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "e2e-"+uuid.NewString())
	bearer := s.Config.Token
	if token != nil {
		bearer = *token
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	res, err := s.client.Do(req)
	s.Require().NoError(err)
	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)
	s.Require().NoError(err)

	line := fmt.Sprintf("HTTP %s %s [%d] in %v", method, path, res.StatusCode, time.Since(start))
	if s.Config.DebugJSON {
		line += fmt.Sprintf("\nREQUEST:\n%s\nRESPONSE:\n%s", raw, payload)
	}
	s.T().Log(line)

	if out != nil && len(payload) > 0 {
		s.Require().NoError(json.Unmarshal(payload, out), "decode %s", payload)
	}
	return res.StatusCode
}
