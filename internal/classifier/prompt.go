package classifier

import (
	"github.com/dmitrijs2005/trivision/internal/models"
	"google.golang.org/genai"
)

const systemInstruction = `
You are TriVision Sort, an advanced AI waste discrimination system.
Your task is to analyze an image and classify the main object into one of seven categories.

Categories:
1. WET_WASTE:
   - Definition: Biodegradable organic matter.
   - Examples: Food scraps, vegetable peels, fruit, tea bags, coffee grounds, garden waste, soiled food wrappers (if mostly organic).

2. DRY_WASTE:
   - Definition: Recyclable inorganic materials.
   - Examples: Clean plastic bottles, glass bottles, metal cans, paper, cardboard, dry packaging.

3. BURNABLE_WASTE:
   - Definition: Non-recyclable combustible items.
   - Examples: Soiled paper/tissues, sanitary waste, rubber, leather, specific non-recyclable plastics, dirty clothes/rags.

4. INERT_WASTE (C&D):
   - Definition: Construction and Demolition waste. Does not burn or rot; heavy/mineral.
   - Examples: Bricks, concrete, tiles, drywall, glass panes, ceramics, rubble, soil, stones.

5. HAZARDOUS_WASTE:
   - Definition: Toxic, flammable, corrosive, or dangerous items requiring safety handling.
   - Examples: Paint cans, batteries, spray bottles, chemicals, syringes/medical waste, light bulbs, e-waste (if broken/toxic).

6. BULKY_WASTE:
   - Definition: Large items too big for standard bins; needs special pickup.
   - Examples: Mattresses, sofas, chairs, tires, refrigerators, large appliances, furniture.

7. NOT_WASTE:
   - Definition: Permanent objects, background elements, or items in use.
   - Examples: Intact buildings, cars, trees, people, benches, street signs, electronics in active use.

Return the result in JSON format.
`

const instruction = "Analyze this image. Classify into WET_WASTE, DRY_WASTE, BURNABLE_WASTE, INERT_WASTE, HAZARDOUS_WASTE, BULKY_WASTE, or NOT_WASTE."

const imageMIMEType = "image/jpeg"

func verdictSchema() *genai.Schema {
	enum := make([]string, 0, len(models.Classifications))
	for _, c := range models.Classifications {
		enum = append(enum, string(c))
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"classification": {
				Type:        genai.TypeString,
				Enum:        enum,
				Description: "The specific classification of the object.",
			},
			"confidence": {
				Type:        genai.TypeNumber,
				Description: "Confidence score between 0 and 1.",
			},
			"label": {
				Type:        genai.TypeString,
				Description: "A short label for the object (e.g., 'Apple Core', 'Broken Brick').",
			},
			"reasoning": {
				Type:        genai.TypeString,
				Description: "Brief explanation of why it fits this category.",
			},
		},
		Required: []string{"classification", "confidence", "label", "reasoning"},
	}
}

func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    verdictSchema(),
	}
}

func requestContents(image []byte) []*genai.Content {
	parts := []*genai.Part{
		genai.NewPartFromBytes(image, imageMIMEType),
		genai.NewPartFromText(instruction),
	}
	return []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
}
