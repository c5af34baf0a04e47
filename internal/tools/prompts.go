// ABOUTME: Prompt templates for adoption counseling, care advice, and species matching.
// ABOUTME: Each template renders a system plus user message pair from its arguments.

package tools

import (
	"fmt"

	"github.com/2389/pet-gateway/internal/catalog"
)

func textMessage(role, text string) catalog.PromptMessage {
	return catalog.PromptMessage{
		Role:    role,
		Content: catalog.PromptContent{Type: "text", Text: text},
	}
}

func argOr(args map[string]string, key, fallback string) string {
	if v, ok := args[key]; ok && v != "" {
		return v
	}
	return fallback
}

func petPrompts() []*catalog.Prompt {
	return []*catalog.Prompt{
		{
			Name:        "adoption_assistant",
			Description: "AI assistant for pet adoption counseling and guidance",
			Arguments: []catalog.PromptArgument{
				{Name: "pet_type", Description: "Type of pet interested in", Required: false},
				{Name: "experience_level", Description: "Pet owner experience level", Required: false},
			},
			Render: func(args map[string]string) []catalog.PromptMessage {
				petType := argOr(args, "pet_type", "any pet")
				experience := argOr(args, "experience_level", "beginner")
				return []catalog.PromptMessage{
					textMessage("system", fmt.Sprintf(
						"You are a knowledgeable and compassionate pet adoption counselor. Help the user find the perfect %s companion based on their %s experience level. Provide personalized advice about pet care, responsibilities, and what to expect during the adoption process.",
						petType, experience)),
					textMessage("user", fmt.Sprintf(
						"I'm interested in adopting %s and I consider myself a %s pet owner. Can you help guide me through the adoption process and what I should consider?",
						petType, experience)),
				}
			},
		},
		{
			Name:        "pet_care_advisor",
			Description: "Provide specific care advice for adopted pets",
			Arguments: []catalog.PromptArgument{
				{Name: "species", Description: "Pet species", Required: true},
				{Name: "age", Description: "Pet age", Required: false},
				{Name: "special_needs", Description: "Any special care requirements", Required: false},
			},
			Render: func(args map[string]string) []catalog.PromptMessage {
				species := argOr(args, "species", "pet")
				var ageInfo, specialInfo string
				if age := args["age"]; age != "" {
					ageInfo = fmt.Sprintf(" that is %s years old", age)
				}
				if needs := args["special_needs"]; needs != "" {
					specialInfo = fmt.Sprintf(" with special needs: %s", needs)
				}
				return []catalog.PromptMessage{
					textMessage("system", fmt.Sprintf(
						"You are an expert veterinarian and pet care specialist. Provide detailed, practical advice for caring for a %s%s%s. Include information about feeding, exercise, health care, grooming, and any species-specific needs.",
						species, ageInfo, specialInfo)),
					textMessage("user", fmt.Sprintf(
						"I just adopted a %s%s%s. What specific care advice do you have for me to ensure my new pet is healthy and happy?",
						species, ageInfo, specialInfo)),
				}
			},
		},
		{
			Name:        "species_recommender",
			Description: "Recommend suitable pet species based on lifestyle and preferences",
			Arguments: []catalog.PromptArgument{
				{Name: "living_situation", Description: "Housing situation", Required: false},
				{Name: "time_available", Description: "Time available for pet care", Required: false},
				{Name: "experience", Description: "Previous pet experience", Required: false},
			},
			Render: func(args map[string]string) []catalog.PromptMessage {
				living := argOr(args, "living_situation", "not specified")
				timeAvail := argOr(args, "time_available", "moderate")
				experience := argOr(args, "experience", "some")
				return []catalog.PromptMessage{
					textMessage("system",
						"You are a pet adoption specialist who helps match people with the most suitable pet species based on their lifestyle, living situation, and experience. Consider factors like space requirements, time commitment, maintenance needs, and compatibility."),
					textMessage("user", fmt.Sprintf(
						"I live in a %s and have %s time available for pet care. I have %s experience with pets. What species would you recommend for me and why?",
						living, timeAvail, experience)),
				}
			},
		},
	}
}
