// ABOUTME: Static resource catalog for the adoption assistant, served over MCP.
// ABOUTME: Content is generated in-process so the server has no filesystem dependency.

package tools

import "github.com/2389/pet-gateway/internal/catalog"

const adoptionFormText = `# Pet Adoption Application Form

This is a sample adoption form that would contain:
- Applicant personal information
- Housing situation details
- Pet care experience
- References and veterinarian information
- Agreement to adoption terms`

const petCareGuideText = `# Pet Care Guidelines

## General Care Requirements
- Daily feeding schedule
- Regular exercise and mental stimulation
- Routine veterinary care
- Grooming and hygiene maintenance

## Species-Specific Care
Different species have unique care requirements. Consult with veterinarians for specific guidance.`

const adoptionProcessText = `# Pet Adoption Process

## Step 1: Browse Available Pets
Use our search features to find pets that match your preferences.

## Step 2: Submit Application
Complete the adoption application form.

## Step 3: Meet and Greet
Schedule a meeting with your potential new companion.

## Step 4: Home Visit
Our team will conduct a home visit to ensure suitability.

## Step 5: Adoption Finalization
Complete paperwork and welcome your new family member!`

const speciesInfoJSON = `{
  "species_info": {
    "Dog": {"lifespan": "12-15 years", "exercise": "high", "social": "very social"},
    "Cat": {"lifespan": "13-17 years", "exercise": "moderate", "social": "independent"},
    "Bird": {"lifespan": "5-80 years", "exercise": "moderate", "social": "varies"},
    "Rabbit": {"lifespan": "8-12 years", "exercise": "high", "social": "social"}
  }
}`

func petResources() []*catalog.Resource {
	return []*catalog.Resource{
		{
			URI:         "file://adoption-form.pdf",
			Name:        "Pet Adoption Application Form",
			Description: "Standard form for pet adoption applications",
			MimeType:    "application/pdf",
			Content:     func() string { return adoptionFormText },
		},
		{
			URI:         "file://pet-care-guide.md",
			Name:        "Pet Care Guidelines",
			Description: "Comprehensive guide for pet care and responsibilities",
			MimeType:    "text/markdown",
			Content:     func() string { return petCareGuideText },
		},
		{
			URI:         "file://adoption-process.md",
			Name:        "Adoption Process Documentation",
			Description: "Step-by-step guide to the pet adoption process",
			MimeType:    "text/markdown",
			Content:     func() string { return adoptionProcessText },
		},
		{
			URI:         "file://species-info.json",
			Name:        "Pet Species Information",
			Description: "Detailed information about different pet species and their care requirements",
			MimeType:    "application/json",
			Content:     func() string { return speciesInfoJSON },
		},
	}
}
