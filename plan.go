package flowkit

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/petrijr/flowkit/pkg/flow"
)

// Plan is a declarative description of a generator tree, typically loaded
// from a YAML file:
//
//	name: boot
//	children:
//	  - kind: sequence
//	    name: stages
//	    children:
//	      - kind: timer
//	        name: warmup
//	        duration: 50ms
//	        on_elapsed: warm
//	      - kind: trigger
//	        name: ready
//	        predicate: isReady
//
// Timers, periodic timers, and the three composites build directly from
// the plan. Callbacks and predicates are code, so plan nodes reference
// them by name and Build resolves the names against caller-supplied Hooks.
type Plan struct {
	Name     string     `yaml:"name"`
	Children []PlanNode `yaml:"children"`
}

// PlanNode is one node in a Plan tree.
type PlanNode struct {
	// Kind selects the node type: node, sequence, barrier, timer,
	// periodic_timer, or trigger.
	Kind string `yaml:"kind"`

	Name string `yaml:"name,omitempty"`

	// Duration is required for kind timer; Interval for periodic_timer.
	// Both use Go duration syntax ("50ms", "2s").
	Duration string `yaml:"duration,omitempty"`
	Interval string `yaml:"interval,omitempty"`

	// OnElapsed names a hook fired by timer/periodic_timer nodes.
	// Predicate and OnTriggered apply to trigger nodes.
	OnElapsed   string `yaml:"on_elapsed,omitempty"`
	Predicate   string `yaml:"predicate,omitempty"`
	OnTriggered string `yaml:"on_triggered,omitempty"`

	// Children is only valid on composite kinds.
	Children []PlanNode `yaml:"children,omitempty"`
}

// Hooks supplies the code referenced by name from a Plan.
type Hooks struct {
	// Funcs resolve timer on_elapsed and trigger on_triggered names.
	Funcs map[string]func()

	// Periodic resolves periodic_timer on_elapsed names; the hook's
	// return value controls whether the timer keeps firing.
	Periodic map[string]func() bool

	// Predicates resolve trigger predicate names.
	Predicates map[string]func() bool
}

// LoadPlan parses a YAML plan document.
func LoadPlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("flowkit: parse plan: %w", err)
	}
	if len(p.Children) == 0 {
		return nil, fmt.Errorf("flowkit: plan %q has no children", p.Name)
	}
	return &p, nil
}

// Build constructs the plan's tree using the given factory and hooks. The
// returned Node carries the plan's name; attach it to a kernel root (or
// step it directly) to run the plan.
func (p *Plan) Build(f *Factory, hooks Hooks) (*Node, error) {
	if f == nil {
		f = NewFactory()
	}
	root := f.Node(p.Name)
	for i, child := range p.Children {
		g, err := buildPlanNode(f, hooks, child, fmt.Sprintf("children[%d]", i))
		if err != nil {
			return nil, err
		}
		root.Add(g)
	}
	return root, nil
}

func buildPlanNode(f *Factory, hooks Hooks, n PlanNode, path string) (Generator, error) {
	switch n.Kind {
	case "node", "sequence", "barrier":
		return buildComposite(f, hooks, n, path)
	case "timer":
		return buildTimer(f, hooks, n, path)
	case "periodic_timer":
		return buildPeriodicTimer(f, hooks, n, path)
	case "trigger":
		return buildTrigger(f, hooks, n, path)
	case "":
		return nil, fmt.Errorf("flowkit: %s: missing kind", path)
	default:
		return nil, fmt.Errorf("flowkit: %s: unknown kind %q", path, n.Kind)
	}
}

func buildComposite(f *Factory, hooks Hooks, n PlanNode, path string) (Generator, error) {
	var (
		add  func(flow.Generator)
		self Generator
	)
	switch n.Kind {
	case "node":
		c := f.Node(n.Name)
		add, self = c.Add, c
	case "sequence":
		c := f.Sequence(n.Name)
		add, self = c.Add, c
	case "barrier":
		c := f.Barrier(n.Name)
		add, self = c.Add, c
	}

	for i, child := range n.Children {
		g, err := buildPlanNode(f, hooks, child, fmt.Sprintf("%s.children[%d]", path, i))
		if err != nil {
			return nil, err
		}
		add(g)
	}
	return self, nil
}

func buildTimer(f *Factory, hooks Hooks, n PlanNode, path string) (Generator, error) {
	if len(n.Children) > 0 {
		return nil, fmt.Errorf("flowkit: %s: timer cannot have children", path)
	}
	d, err := time.ParseDuration(n.Duration)
	if err != nil {
		return nil, fmt.Errorf("flowkit: %s: bad duration %q: %w", path, n.Duration, err)
	}
	t := f.Timer(n.Name, d)
	if n.OnElapsed != "" {
		fn, ok := hooks.Funcs[n.OnElapsed]
		if !ok {
			return nil, fmt.Errorf("flowkit: %s: unknown hook %q", path, n.OnElapsed)
		}
		t.SetElapsedFunc(fn)
	}
	return t, nil
}

func buildPeriodicTimer(f *Factory, hooks Hooks, n PlanNode, path string) (Generator, error) {
	if len(n.Children) > 0 {
		return nil, fmt.Errorf("flowkit: %s: periodic_timer cannot have children", path)
	}
	d, err := time.ParseDuration(n.Interval)
	if err != nil {
		return nil, fmt.Errorf("flowkit: %s: bad interval %q: %w", path, n.Interval, err)
	}
	t := f.PeriodicTimer(n.Name, d)
	if n.OnElapsed != "" {
		fn, ok := hooks.Periodic[n.OnElapsed]
		if !ok {
			return nil, fmt.Errorf("flowkit: %s: unknown periodic hook %q", path, n.OnElapsed)
		}
		t.SetElapsedFunc(fn)
	}
	return t, nil
}

func buildTrigger(f *Factory, hooks Hooks, n PlanNode, path string) (Generator, error) {
	if len(n.Children) > 0 {
		return nil, fmt.Errorf("flowkit: %s: trigger cannot have children", path)
	}
	if n.Predicate == "" {
		return nil, fmt.Errorf("flowkit: %s: trigger requires a predicate", path)
	}
	pred, ok := hooks.Predicates[n.Predicate]
	if !ok {
		return nil, fmt.Errorf("flowkit: %s: unknown predicate %q", path, n.Predicate)
	}
	t := f.Trigger(n.Name, pred)
	if n.OnTriggered != "" {
		fn, ok := hooks.Funcs[n.OnTriggered]
		if !ok {
			return nil, fmt.Errorf("flowkit: %s: unknown hook %q", path, n.OnTriggered)
		}
		t.SetTriggeredFunc(fn)
	}
	return t, nil
}
