package template

func comprehensiveTemplate() *Template {
	return &Template{
		Name: Comprehensive,
		Sections: []SectionSpec{
			{
				Title:    "Executive Summary",
				Content:  "{executive_summary}",
				Required: true,
				Order:    1,
			},
			{
				Title:    "Problem Statement",
				Content:  "{problem_statement}\n\n**Pain points:**\n\n{pain_points}",
				Required: true,
				Order:    2,
			},
			{
				Title:    "Target Users",
				Content:  "{target_users}",
				Required: true,
				Order:    3,
			},
			{
				Title:    "Market Analysis",
				Content:  "{market_overview}\n\n**Competitive landscape:**\n\n{competitors}",
				Required: true,
				Order:    4,
			},
			{
				Title:    "Functional Requirements",
				Content:  "{functional_requirements}",
				Required: true,
				Order:    5,
			},
			{
				Title:    "Non-Functional Requirements",
				Content:  "{non_functional_requirements}",
				Required: true,
				Order:    6,
			},
			{
				Title:    "Technical Architecture",
				Content:  "{architecture}\n\n**Technology stack:** {technologies}",
				Required: true,
				Order:    7,
			},
			{
				Title:    "Feasibility & Risks",
				Content:  "{feasibility}\n\n**Constraints:** {constraints}",
				Required: false,
				Order:    8,
			},
			{
				Title:    "Success Metrics",
				Content:  "{success_metrics}",
				Required: true,
				Order:    9,
			},
			{
				Title:    "Timeline & Milestones",
				Content:  "{timeline}",
				Required: false,
				Order:    10,
			},
		},
	}
}

func minimalTemplate() *Template {
	return &Template{
		Name: Minimal,
		Sections: []SectionSpec{
			{
				Title:    "Overview",
				Content:  "{problem_statement}\n\n**Target users:** {target_users}",
				Required: true,
				Order:    1,
			},
			{
				Title:    "Requirements",
				Content:  "{functional_requirements}",
				Required: true,
				Order:    2,
			},
			{
				Title:    "Success Criteria",
				Content:  "{success_metrics}",
				Required: true,
				Order:    3,
			},
		},
	}
}

func technicalFocusedTemplate() *Template {
	return &Template{
		Name: TechnicalFocused,
		Sections: []SectionSpec{
			{
				Title:    "Technical Overview",
				Content:  "{problem_statement}\n\n**Technology stack:** {technologies}",
				Required: true,
				Order:    1,
			},
			{
				Title:    "Architecture",
				Content:  "{architecture}\n\n**Feasibility assessment:**\n\n{feasibility}",
				Required: true,
				Order:    2,
			},
			{
				Title:    "Requirements",
				Content:  "{functional_requirements}\n\n**Non-functional:**\n\n{non_functional_requirements}",
				Required: true,
				Order:    3,
			},
		},
	}
}
