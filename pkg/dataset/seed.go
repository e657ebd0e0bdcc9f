// Package dataset supplies the initial roadmap nodes and edges.
package dataset

import "github.com/ritzau/roadmap/pkg/model"

var seedNodes = []model.Node{
	{
		ID:       "1",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 250, Y: 0},
		Data: model.NodeData{
			Label:       "인터넷",
			Description: "인터넷의 작동 방식",
			Items:       []string{"HTTP", "DNS", "Browsers", "Hosting"},
			Status:      model.StatusRecommended,
		},
	},
	{
		ID:       "2",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 100, Y: 150},
		Data: model.NodeData{
			Label:       "HTML",
			Description: "웹의 기초",
			Items:       []string{"Semantic HTML", "Forms", "Conventions"},
			Status:      model.StatusRequired,
		},
	},
	{
		ID:       "3",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 400, Y: 150},
		Data: model.NodeData{
			Label:       "CSS",
			Description: "스타일링",
			Items:       []string{"Selectors", "Positioning", "Box Model", "Flexbox"},
			Status:      model.StatusRequired,
		},
	},
	{
		ID:       "4",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 250, Y: 300},
		Data: model.NodeData{
			Label:       "JavaScript",
			Description: "프로그래밍 언어",
			Items:       []string{"Syntax", "DOM", "Fetch API", "ES6+"},
			Status:      model.StatusRequired,
		},
	},
	{
		ID:       "5",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 250, Y: 450},
		Data: model.NodeData{
			Label:       "React",
			Description: "UI 라이브러리",
			Items:       []string{"Components", "JSX", "State", "Hooks"},
			Status:      model.StatusRecommended,
		},
	},
	{
		ID:       "6",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 100, Y: 600},
		Data: model.NodeData{
			Label:       "Next.js",
			Description: "React 프레임워크",
			Items:       []string{"SSR", "Routing", "API Routes"},
			Status:      model.StatusOptional,
		},
	},
	{
		ID:       "7",
		Type:     model.NodeTypeRoadmap,
		Position: model.Position{X: 400, Y: 600},
		Data: model.NodeData{
			Label:       "TypeScript",
			Description: "타입 시스템",
			Items:       []string{"Types", "Interfaces", "Generics"},
			Status:      model.StatusOptional,
		},
	},
}

var seedEdges = []model.Edge{
	{ID: "e1-2", Source: "1", Target: "2", Animated: true},
	{ID: "e1-3", Source: "1", Target: "3", Animated: true},
	{ID: "e2-4", Source: "2", Target: "4"},
	{ID: "e3-4", Source: "3", Target: "4"},
	{ID: "e4-5", Source: "4", Target: "5"},
	{ID: "e5-6", Source: "5", Target: "6"},
	{ID: "e5-7", Source: "5", Target: "7"},
}

// Seed returns a fresh copy of the built-in frontend roadmap
func Seed() ([]model.Node, []model.Edge) {
	return model.CloneNodes(seedNodes), model.CloneEdges(seedEdges)
}
