package planner

import (
	"ai-investigator-be/pkg/interview/category"
	"ai-investigator-be/pkg/interview/policy"
)

// Planner decides what kind of question comes next. One decision point
// per answer: complete, follow up, or advance. It never generates text
// and never mutates the session.
type Planner struct {
	machine *category.Machine
	policy  policy.Policy
}

func NewPlanner(machine *category.Machine, pol policy.Policy) *Planner {
	return &Planner{machine: machine, policy: pol}
}

// Plan maps a turn to a directive. The interview ends only when advancing
// would reach the terminal category and the policy wants no follow-up;
// otherwise a follow-up stays in the current category and an advance
// commits to the next one.
func (p *Planner) Plan(tc TurnContext) Directive {
	current := tc.Session.CurrentCategory
	next := p.machine.Next(current)
	needsFollowUp := p.policy.NeedsFollowUp(tc.LatestAnswer, current)

	if next == p.machine.Terminal() && !needsFollowUp {
		return Directive{
			Kind:     DirectiveComplete,
			Category: p.machine.Terminal(),
		}
	}

	if needsFollowUp {
		return Directive{
			Kind:            DirectiveFollowUp,
			Category:        current,
			LatestAnswer:    tc.LatestAnswer,
			Retrieved:       tc.Retrieved,
			Window:          tc.Window,
			AskedInCategory: tc.AskedIn(current),
		}
	}

	return Directive{
		Kind:            DirectiveAdvance,
		Category:        next,
		LatestAnswer:    tc.LatestAnswer,
		Retrieved:       tc.Retrieved,
		Window:          tc.Window,
		AskedInCategory: tc.AskedIn(next),
	}
}

// Machine exposes the traversal order for callers that report progress.
func (p *Planner) Machine() *category.Machine {
	return p.machine
}
