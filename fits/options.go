package fits

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/robert-malhotra/go-acalib/units"
)

// CollapsePolicy selects how the polarization axis of 4D data is reduced.
type CollapsePolicy int

const (
	// CollapseSum adds the samples along the polarization axis.
	CollapseSum CollapsePolicy = iota
	// CollapseMean averages them.
	CollapseMean
)

func (p CollapsePolicy) String() string {
	switch p {
	case CollapseSum:
		return "sum"
	case CollapseMean:
		return "mean"
	default:
		return fmt.Sprintf("CollapsePolicy(%d)", int(p))
	}
}

// ParseCollapsePolicy parses "sum" or "mean".
func ParseCollapsePolicy(s string) (CollapsePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sum":
		return CollapseSum, nil
	case "mean":
		return CollapseMean, nil
	default:
		return 0, fmt.Errorf("unknown collapse policy %q", s)
	}
}

// Option configures Load, Save and the converters.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	collapse         CollapsePolicy
	defaultUnit      units.Unit
	skipPrimaryImage bool
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:      slog.Default(),
		collapse:    CollapseSum,
		defaultUnit: DefaultUnit,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for progress and skipped HDUs.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCollapse sets the policy used to drop the polarization axis.
func WithCollapse(p CollapsePolicy) Option {
	return func(o *options) {
		o.collapse = p
	}
}

// WithDefaultUnit sets the unit assumed when BUNIT is absent.
func WithDefaultUnit(u units.Unit) Option {
	return func(o *options) {
		if !u.IsZero() {
			o.defaultUnit = u
		}
	}
}

// WithSkipPrimaryImage makes Save omit the image that is also the primary
// from the SCI extensions, so its data is stored once.
func WithSkipPrimaryImage() Option {
	return func(o *options) {
		o.skipPrimaryImage = true
	}
}
