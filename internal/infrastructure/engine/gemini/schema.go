package gemini

import "github.com/google/generative-ai-go/genai"

// analysisPrompt is the fixed instructional preamble sent with every
// document. Output language and tone are part of the product contract.
const analysisPrompt = `Você é um assistente administrativo especialista. Analise o documento fornecido.
Objetivo: Facilitar a tomada de decisão administrativa.
Linguagem: Português (Brasil), claro, direto, sem jargões.

Estruture a resposta estritamente conforme o JSON schema solicitado.
Se o documento for uma imagem, descreva o conteúdo visual relevante para um contexto de negócios.`

// reportSchema constrains the model output so the response can be decoded
// without free-text parsing heuristics. additionalNotes is the only
// optional field.
var reportSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {
			Type:        genai.TypeString,
			Description: "Um resumo executivo claro e conciso do documento.",
		},
		"keyPoints": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Lista dos pontos mais importantes abordados.",
		},
		"requests": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {Type: genai.TypeString},
					"priority": {
						Type: genai.TypeString,
						Enum: []string{"Normal", "Urgente"},
					},
				},
			},
			Description: "Pedidos ou solicitações identificadas no texto.",
		},
		"risks": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"description": {Type: genai.TypeString},
					"severity": {
						Type: genai.TypeString,
						Enum: []string{"Baixo", "Médio", "Alto"},
					},
				},
			},
			Description: "Riscos potenciais ou avisos encontrados.",
		},
		"benefits": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "Benefícios, vantagens ou pontos positivos.",
		},
		"keywords": {
			Type:        genai.TypeArray,
			Items:       &genai.Schema{Type: genai.TypeString},
			Description: "5 a 10 palavras-chave principais do documento.",
		},
		"additionalNotes": {
			Type:        genai.TypeString,
			Description: "Observações gerais adicionais, se houver.",
		},
	},
	Required: []string{"summary", "keyPoints", "requests", "risks", "benefits", "keywords"},
}
