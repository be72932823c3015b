package scenario

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yanet-platform/flame/common/go/xmac"
	"github.com/yanet-platform/flame/modules/flame/internal/rtable"
)

// DefaultLocalAddr is the address frames are sent from unless the scenario
// says otherwise.
var DefaultLocalAddr = xmac.Addr{0x02, 0x00, 0x00, 0x00, 0x00, 0x00}

// Scenario is a timed trace of routing table events.
type Scenario struct {
	// Lifetime overrides the configured route lifetime when positive.
	Lifetime time.Duration `yaml:"lifetime"`
	// Local is the address of the simulated node.
	Local xmac.Addr `yaml:"local"`
	// Events are the events to replay, ordered by time after loading.
	Events []Event `yaml:"events"`
}

// Event is a single scenario step.
//
// Exactly one of Add, Lookup and Forward is set.
type Event struct {
	// At is the offset from the start of the replay.
	At time.Duration `yaml:"at"`
	// Add offers a path to the routing table.
	Add *AddEvent `yaml:"add,omitempty"`
	// Lookup queries the routing table.
	Lookup *xmac.Addr `yaml:"lookup,omitempty"`
	// Expect optionally checks the lookup result.
	Expect *Expectation `yaml:"expect,omitempty"`
	// Forward frames a data unit through the routing table.
	Forward *ForwardEvent `yaml:"forward,omitempty"`
}

// Kind returns a short name of the event action.
func (m *Event) Kind() string {
	switch {
	case m.Add != nil:
		return "add"
	case m.Lookup != nil:
		return "lookup"
	case m.Forward != nil:
		return "forward"
	default:
		return "unknown"
	}
}

// AddEvent describes an advertised path.
type AddEvent struct {
	Destination   xmac.Addr `yaml:"destination"`
	Retransmitter xmac.Addr `yaml:"retransmitter"`
	Interface     uint32    `yaml:"interface"`
	Cost          uint32    `yaml:"cost"`
	Seqnum        uint16    `yaml:"seqnum"`
}

// ForwardEvent describes a data unit to forward.
type ForwardEvent struct {
	Destination xmac.Addr `yaml:"destination"`
	Payload     string    `yaml:"payload"`
}

// Expectation is a check of a lookup result.
//
// Unset fields are not checked.
type Expectation struct {
	// Valid, when false, expects no route. Defaults to true.
	Valid         *bool      `yaml:"valid,omitempty"`
	Retransmitter *xmac.Addr `yaml:"retransmitter,omitempty"`
	Interface     *uint32    `yaml:"interface,omitempty"`
	Cost          *uint8     `yaml:"cost,omitempty"`
	Seqnum        *uint16    `yaml:"seqnum,omitempty"`
}

// Check compares the lookup result against this expectation.
func (m *Expectation) Check(result rtable.LookupResult) error {
	if m.Valid != nil && !*m.Valid {
		if result.IsValid() {
			return fmt.Errorf("expected no route, got %s", formatResult(result))
		}
		return nil
	}

	if !result.IsValid() {
		return fmt.Errorf("expected a route, got none")
	}

	var errs []error
	if m.Retransmitter != nil && *m.Retransmitter != result.Retransmitter {
		errs = append(errs, fmt.Errorf("retransmitter: expected %s, got %s", *m.Retransmitter, result.Retransmitter))
	}
	if m.Interface != nil && *m.Interface != result.Interface {
		errs = append(errs, fmt.Errorf("interface: expected %d, got %d", *m.Interface, result.Interface))
	}
	if m.Cost != nil && *m.Cost != result.Cost {
		errs = append(errs, fmt.Errorf("cost: expected %d, got %d", *m.Cost, result.Cost))
	}
	if m.Seqnum != nil && *m.Seqnum != result.Seqnum {
		errs = append(errs, fmt.Errorf("seqnum: expected %d, got %d", *m.Seqnum, result.Seqnum))
	}

	return errors.Join(errs...)
}

// Load reads a scenario from a YAML file at the specified path.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates a YAML scenario.
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{
		Local: DefaultLocalAddr,
	}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML scenario: %w", err)
	}

	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	// Equal times keep their order in the file.
	slices.SortStableFunc(sc.Events, func(a Event, b Event) int {
		return cmp.Compare(a.At, b.At)
	})

	return sc, nil
}

func (m *Scenario) validate() error {
	if m.Lifetime < 0 {
		return fmt.Errorf("negative lifetime %s", m.Lifetime)
	}
	if m.Local.IsBroadcast() {
		return fmt.Errorf("local address must not be broadcast")
	}

	for idx, event := range m.Events {
		if event.At < 0 {
			return fmt.Errorf("event #%d: negative time %s", idx, event.At)
		}

		actions := 0
		for _, set := range []bool{event.Add != nil, event.Lookup != nil, event.Forward != nil} {
			if set {
				actions++
			}
		}
		if actions != 1 {
			return fmt.Errorf("event #%d: exactly one of add, lookup or forward must be set, got %d", idx, actions)
		}
		if event.Expect != nil && event.Lookup == nil {
			return fmt.Errorf("event #%d: expect is only allowed for lookups", idx)
		}
	}

	return nil
}

func formatResult(result rtable.LookupResult) string {
	if !result.IsValid() {
		return "no route"
	}
	return fmt.Sprintf("via %s if=%d cost=%d seqnum=%d",
		result.Retransmitter, result.Interface, result.Cost, result.Seqnum)
}
