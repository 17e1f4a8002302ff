package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/MarcGrol/ucpcheckout/lib/myerrors"
	"github.com/MarcGrol/ucpcheckout/lib/mylog"
)

const ucpAgentHeader = "UCP-Agent"

// Agent identifies the calling platform, as announced in the UCP-Agent header:
//
//	UCP-Agent: version="2026-01-11"; profile="https://platform.example.com/profile"
type Agent struct {
	Version string
	Profile string
}

func parseAgent(header string) (Agent, error) {
	if strings.TrimSpace(header) == "" {
		return Agent{}, myerrors.NewInvalidInputError(fmt.Errorf("UCP-Agent header is missing."))
	}

	agent := Agent{}
	for _, part := range strings.Split(header, ";") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) > 1 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}

		switch key {
		case "version":
			agent.Version = value
		case "profile":
			agent.Profile = value
		}
	}
	return agent, nil
}

func (s *service) validateAgent(c context.Context, header string) (Agent, error) {
	agent, err := parseAgent(header)
	if err != nil {
		return Agent{}, err
	}

	if agent.Version == s.cfg.UCPVersion {
		return agent, nil
	}

	if agent.Version == "" && !s.cfg.FailOnNullVersion {
		s.logger.Log(c, "", mylog.SeverityWarn, "UCP-Agent header has missing 'version', continuing")
		return agent, nil
	}

	s.logger.Log(c, "", mylog.SeverityWarn, "UCP-Agent header has invalid or missing 'version'. Expected %s, found %q", s.cfg.UCPVersion, agent.Version)
	return Agent{}, myerrors.NewInvalidInputError(fmt.Errorf("UCP-Agent header has invalid or missing 'version'. Expected '%s'.", s.cfg.UCPVersion))
}
