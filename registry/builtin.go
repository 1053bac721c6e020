package registry

import "github.com/promptforge/refinery/core"

// requestBlock is the shared tail of every built-in prompt template. It
// injects the original request and the session's output requirements.
const requestBlock = `

ORIGINAL REQUEST:
{{.OriginalRequest}}

REQUIREMENTS:
- Output length: {{.MinWords}}-{{.MaxWords}} words
- Single paragraph only (no headers, bullets, or sections)
- Preserve the original scope, do not add features
{{if .IncludeProjectContext}}- Include relevant project context{{else}}- Do not read project files{{end}}

OUTPUT:
Provide only the refined paragraph, nothing else.`

// Default returns the built-in six-perspective catalog. Each entry carries
// its own sampling temperature and capability set.
func Default() *Registry {
	return MustNew(
		core.AgentDefinition{
			ID:          "technical-architect",
			Name:        "Technical Architecture Agent",
			Role:        "Senior Software Architect",
			Focus:       "Technical feasibility, system design, implementation patterns",
			Temperature: 0.7,
			Capabilities: []core.Capability{
				core.CapabilityRead, core.CapabilityGrep, core.CapabilityGlob,
			},
			PromptTemplate: `You are a senior software architect refining a feature request.
Focus on technical feasibility, architecture implications, integration
points with existing components, performance, scalability and required
infrastructure or dependencies.` + requestBlock,
		},
		core.AgentDefinition{
			ID:          "product-manager",
			Name:        "Product Management Agent",
			Role:        "Senior Product Manager",
			Focus:       "User value, requirements clarity, acceptance criteria",
			Temperature: 1.0,
			PromptTemplate: `You are a senior product manager refining a feature request.
Focus on user value and business impact, clear functional requirements,
specific acceptance criteria, edge cases, success metrics and explicit
scope boundaries.` + requestBlock,
		},
		core.AgentDefinition{
			ID:          "ux-designer",
			Name:        "UX Design Agent",
			Role:        "Senior UX Designer",
			Focus:       "User experience, interactions, accessibility",
			Temperature: 1.2,
			Capabilities: []core.Capability{
				core.CapabilityRead,
			},
			PromptTemplate: `You are a senior UX designer refining a feature request.
Focus on user interactions and workflows, UI patterns and conventions,
accessibility requirements, responsive design, visual feedback and error
handling from a user perspective.` + requestBlock,
		},
		core.AgentDefinition{
			ID:          "security-engineer",
			Name:        "Security Agent",
			Role:        "Security Engineer",
			Focus:       "Security, authentication, data protection",
			Temperature: 0.5,
			Capabilities: []core.Capability{
				core.CapabilityRead, core.CapabilityGrep,
			},
			PromptTemplate: `You are a security engineer refining a feature request.
Focus on security implications and threats, authentication and
authorization requirements, data protection, input validation and
sensitive data handling.` + requestBlock,
		},
		core.AgentDefinition{
			ID:          "test-engineer",
			Name:        "Testing & Quality Agent",
			Role:        "Senior Test Engineer",
			Focus:       "Testability, quality assurance, edge cases",
			Temperature: 0.8,
			Capabilities: []core.Capability{
				core.CapabilityRead,
			},
			PromptTemplate: `You are a test engineer refining a feature request.
Focus on testability and coverage strategy, critical edge cases and error
conditions, quality gates, integration scenarios and test data
requirements.` + requestBlock,
		},
		core.AgentDefinition{
			ID:          "user-advocate",
			Name:        "User Advocate Agent",
			Role:        "End User Representative",
			Focus:       "End user perspective, real-world usage, user benefits",
			Temperature: 1.0,
			PromptTemplate: `You represent the end users who will actually use this feature.
Focus on how it solves real user problems, the user journey, plain
user-friendly language, expectations of what good looks like, friction
points and the learning curve.` + requestBlock,
		},
	)
}
