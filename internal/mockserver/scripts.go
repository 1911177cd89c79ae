package mockserver

import "github.com/sahayak-app/sahayak/internal/artifact"

// DefaultScripts returns a successful sample stream per artifact kind.
func DefaultScripts() map[artifact.Kind]Script {
	return map[artifact.Kind]Script{
		artifact.KindAnswer: {
			Progress: []string{"Reading the topic...", "Writing an answer..."},
			Data:     `{"answer":"Plants make food from sunlight, water and carbon dioxide. This process is called **photosynthesis**."}`,
		},
		artifact.KindActivities: {
			Progress: []string{"Looking at the grade level...", "Designing activities..."},
			Data: `[{"title":"Leaf Detectives","description":"Students collect leaves and sort them by shape.",` +
				`"instructions":"Walk around the school garden in pairs.","materials":["leaves","chart paper"],"duration":20}]`,
		},
		artifact.KindQuestionPrompts: {
			Progress: []string{"Thinking about the lesson...", "Writing question prompts..."},
			Data: `{"question_prompts":[{"question":"Why do plants need sunlight?",` +
				`"purpose":"Check understanding of energy sources","connection":"Links to yesterday's lesson on food chains"}]}`,
		},
		artifact.KindVideo: {
			Progress: []string{"Writing a script...", "Rendering video..."},
			Data:     `{"video_url":"/media/videos/photosynthesis.mp4"}`,
		},
	}
}
