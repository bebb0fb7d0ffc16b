package planner

import (
	"fmt"

	"ai-investigator-be/pkg/interview/category"
)

// introTemplates is the per-category question bank. Intros rotate through
// the set when a category is visited more than once.
var introTemplates = map[category.Category][]string{
	category.Start: {
		"Let's start by understanding your product idea. What problem does your product solve?",
	},
	category.Functionality: {
		"What are the main features users will interact with?",
		"How will users accomplish their primary goals with your product?",
		"What makes your product's functionality unique or innovative?",
	},
	category.Users: {
		"Who are the primary users of your product?",
		"What expertise level do your users have (beginner, intermediate, expert)?",
		"What are the key characteristics of your target users?",
	},
	category.Demographics: {
		"What is the age range of your target audience?",
		"What geographic regions are you primarily targeting?",
		"Are there specific demographic factors important for your product?",
	},
	category.Design: {
		"Do you have specific design preferences (modern, minimal, bold, playful)?",
		"Are there any brand colors or style guidelines you'd like to follow?",
		"What mood or feeling should the design convey to users?",
	},
	category.Market: {
		"Who are your main competitors in the market?",
		"What is your unique value proposition compared to alternatives?",
		"What market segment or niche are you targeting?",
	},
	category.Technical: {
		"Do you have any technical stack preferences or requirements?",
		"What are your scalability expectations (users, data volume)?",
		"Are there specific integrations or APIs you need to support?",
	},
	category.Review: {
		"Let me summarize what we've discussed. Does this capture your vision accurately?",
		"Is there anything important we haven't covered yet?",
		"Would you like to clarify or expand on any aspect?",
	},
}

// followUpTemplates backs the deterministic fallback when generation fails.
var followUpTemplates = map[category.Category][]string{
	category.Functionality: {
		"Can you give me a specific example of how that would work?",
		"What would be the most important aspect of that feature?",
		"How do you envision users interacting with that?",
	},
	category.Users: {
		"Can you describe a typical user's background or expertise?",
		"What would motivate someone to use your product?",
		"What problems do these users currently face?",
	},
	category.Demographics: {
		"Are there specific characteristics that define your target audience?",
		"Which demographic factors are most relevant to your product?",
		"How would you reach this audience?",
	},
	category.Design: {
		"What emotion should users feel when using your product?",
		"Are there any design examples you admire?",
		"What should be the visual focus of the interface?",
	},
	category.Market: {
		"What makes your approach different from existing solutions?",
		"Who would be your ideal first customers?",
		"What's the key benefit users would pay for?",
	},
	category.Technical: {
		"What technical capabilities are critical for your product?",
		"Do you have any performance or security requirements?",
		"What platforms or devices need to be supported?",
	},
}

var genericFollowUps = []string{
	"Could you tell me more about that?",
	"Can you elaborate on that point?",
}

// IntroTemplate returns the intro question for a category, rotating by the
// number of questions already asked in it. Unknown categories get a
// generic opener so the interview never stalls.
func IntroTemplate(cat category.Category, asked int) string {
	templates, ok := introTemplates[cat]
	if !ok || len(templates) == 0 {
		return fmt.Sprintf("Let's talk about %s. What should I know about it?", cat)
	}
	if asked < 0 {
		asked = 0
	}
	return templates[asked%len(templates)]
}

// FallbackFollowUp returns the deterministic follow-up for a category.
func FallbackFollowUp(cat category.Category) string {
	templates, ok := followUpTemplates[cat]
	if !ok || len(templates) == 0 {
		return genericFollowUps[0]
	}
	return templates[0]
}

// FirstQuestion is the opener for every new interview.
func FirstQuestion() string {
	return introTemplates[category.Start][0]
}
