package api

import (
	"github.com/bioclassify/taric/internal/config"
	"github.com/bioclassify/taric/pkg/openapi"
)

// buildSpec assembles the OpenAPI document for the classification API.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)

	spec.Components.AddSchemas(map[string]*openapi.Schema{
		"ProductQuery": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"description":          {Type: "string"},
				"raw_text":             {Type: "string"},
				"cas_numbers":          {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"active_ingredients":   {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"chemical_composition": {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"safety_warnings":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"formulation":          {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"packaging":            {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"therapeutic_use":      {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"manufacturer":         {Type: "string"},
				"storage":              {Type: "string"},
			},
		},
		"ClassificationResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"hs_code":            {Type: "string"},
				"confidence":         {Type: "number"},
				"confidence_label":   {Type: "string"},
				"memo":               {Type: "string"},
				"reasoning":          openapi.SchemaRef("Reasoning"),
				"sources":            {Type: "array", Items: &openapi.Schema{Type: "string"}},
				"database_validated": {Type: "boolean"},
				"validation_warning": {Type: "string"},
				"session_id":         {Type: "string", Format: "uuid"},
			},
		},
		"Reasoning": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"product_type":          {Type: "string"},
				"active_ingredient":     {Type: "string"},
				"gir_applied":           {Type: "string"},
				"chapter_notes_applied": {Type: "string"},
				"exclusions_checked":    {Type: "string"},
			},
		},
		"FollowUpRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"question": {Type: "string"},
			},
			Required: []string{"question"},
		},
		"FollowUpResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"session_id": {Type: "string", Format: "uuid"},
				"response":   {Type: "string"},
				"history":    {Type: "array", Items: openapi.SchemaRef("Turn")},
			},
		},
		"Turn": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"role":    {Type: "string"},
				"content": {Type: "string"},
			},
		},
		"TariffCode": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"code":        {Type: "string"},
				"description": {Type: "string"},
				"chapter":     {Type: "string"},
				"heading":     {Type: "string"},
				"source_url":  {Type: "string"},
			},
		},
		"ExtractRequest": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"text": {Type: "string"},
			},
			Required: []string{"text"},
		},
	})

	spec.Paths["/classify"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Classify a pharmaceutical product",
			RequestBody: openapi.RequestBodyJSON("ProductQuery", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Classification result", "ClassificationResult"),
			},
		},
	}

	spec.Paths["/classify/{id}/followup"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Ask a follow-up question about a classification",
			Parameters: []*openapi.Parameter{
				openapi.PathParam("id", "Session identifier"),
			},
			RequestBody: openapi.RequestBodyJSON("FollowUpRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Follow-up answer", "FollowUpResult"),
			},
		},
	}

	spec.Paths["/extract"] = &openapi.PathItem{
		Post: &openapi.Operation{
			Summary:     "Tag document text into product attributes",
			RequestBody: openapi.RequestBodyJSON("ExtractRequest", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Extracted product query", "ProductQuery"),
			},
		},
	}

	spec.Paths["/tariffs/{code}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			Summary:     "Find a tariff code",
			Parameters: []*openapi.Parameter{
				openapi.PathParam("code", "Canonical TARIC code"),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Tariff code", "TariffCode"),
			},
		},
	}

	return spec
}
