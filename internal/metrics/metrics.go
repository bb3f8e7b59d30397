package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Command outcomes.
const (
	OutcomeAccepted     = "accepted"
	OutcomeWrongChannel = "wrong_channel"
	OutcomeForbidden    = "forbidden"
	OutcomeFailed       = "failed"
)

var (
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auditbot_commands_total",
		Help: "Total number of slash command invocations by command and outcome",
	}, []string{"command", "outcome"})
	registrationErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auditbot_command_registration_errors_total",
		Help: "Total number of failed slash command registrations",
	})
	blacklistMatchesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auditbot_blacklist_matches_total",
		Help: "Total number of audits that matched a blacklist entry",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry prometheus.Registerer) {
	registry.MustRegister(commandsTotal, registrationErrorsTotal, blacklistMatchesTotal)
}

// IncCommand increments the invocation counter for a command outcome.
func IncCommand(command, outcome string) {
	commandsTotal.WithLabelValues(command, outcome).Inc()
}

// IncRegistrationError increments the failed registration counter.
func IncRegistrationError() { registrationErrorsTotal.Inc() }

// IncBlacklistMatch increments the blacklist match counter.
func IncBlacklistMatch() { blacklistMatchesTotal.Inc() }
