package domain

import "strings"

// OutcomeKind is the tri-state result of one notification attempt.
type OutcomeKind string

const (
	OutcomeSuppressed OutcomeKind = "SUPPRESSED"
	OutcomeDelivered  OutcomeKind = "DELIVERED"
	OutcomeFailed     OutcomeKind = "FAILED"
)

func (k OutcomeKind) String() string { return string(k) }

// Reason explains a suppressed or failed outcome.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonDisabled         Reason = "disabled"
	ReasonNonSuccessStatus Reason = "non_success_status"
	ReasonMissingURI       Reason = "missing_uri"
	ReasonResolution       Reason = "resolution"
	ReasonConnect          Reason = "connect"
	ReasonSend             Reason = "send"
	ReasonReceive          Reason = "receive"
)

func (r Reason) String() string { return string(r) }

// IsSuppression reports whether the reason belongs to the no-op policy set.
func (r Reason) IsSuppression() bool {
	return r == ReasonDisabled || r == ReasonNonSuccessStatus
}

// Outcome is returned for every dispatcher invocation.
type Outcome struct {
	Kind   OutcomeKind
	Reason Reason
	Err    error
}

func Suppressed(reason Reason) Outcome {
	return Outcome{Kind: OutcomeSuppressed, Reason: reason}
}

func Delivered() Outcome {
	return Outcome{Kind: OutcomeDelivered}
}

func Failed(reason Reason, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason, Err: err}
}

func (o Outcome) IsDelivered() bool { return o.Kind == OutcomeDelivered }
func (o Outcome) IsFailed() bool    { return o.Kind == OutcomeFailed }

func (o Outcome) String() string {
	parts := make([]string, 0, 3)
	parts = append(parts, strings.ToLower(o.Kind.String()))
	if o.Reason != ReasonNone {
		parts = append(parts, o.Reason.String())
	}
	if o.Err != nil {
		parts = append(parts, o.Err.Error())
	}
	return strings.Join(parts, ": ")
}

