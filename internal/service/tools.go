package service

import "encoding/json"

// toolKind is the closed set of tools the mediator dispatches on. New
// tools are added here and in the switch in executeTool, which keeps the
// dispatch compile-time checked instead of stringly typed.
type toolKind int

const (
	toolUnknown toolKind = iota
	toolGetRecommendations
	toolShowNextProperty
	toolRejectRecommendation
	toolResetConversation
)

const (
	toolNameGetRecommendations   = "get_recommendations"
	toolNameShowNextProperty     = "show_next_property"
	toolNameRejectRecommendation = "reject_recommendation"
	toolNameResetConversation    = "reset_conversation"
)

func toolKindOf(name string) toolKind {
	switch name {
	case toolNameGetRecommendations:
		return toolGetRecommendations
	case toolNameShowNextProperty:
		return toolShowNextProperty
	case toolNameRejectRecommendation:
		return toolRejectRecommendation
	case toolNameResetConversation:
		return toolResetConversation
	default:
		return toolUnknown
	}
}

// chatTools declares the callable functions offered to the assistant on
// every turn
var chatTools = []Tool{
	{
		Type: "function",
		Function: ToolFunction{
			Name: toolNameGetRecommendations,
			Description: "Fetches a fresh ranked list of rental recommendations for the user and presents the " +
				"top match. Call this when the user asks for suggestions and has told you which single factor " +
				"matters most: proximity to their place of work or study, their budget, or the kind of room.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"priority": {
						"type": "string",
						"enum": ["distance", "price", "room_type"],
						"description": "The single hard filter to apply: distance (2-5 km from the user's reference location), price (within their budget), or room_type (their preferred category)"
					}
				},
				"required": ["priority"]
			}`),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name: toolNameShowNextProperty,
			Description: "Shows the next property from the current recommendation list. Call this when the user " +
				"wants to see another option without rejecting the current one.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {}
			}`),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name: toolNameRejectRecommendation,
			Description: "Records that the user dislikes a property so it is never recommended again this " +
				"session, then advances to the next option. Use the property_id from the most recent tool result.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"property_id": {
						"type": "integer",
						"description": "The id of the property the user rejected"
					}
				},
				"required": ["property_id"]
			}`),
		},
	},
	{
		Type: "function",
		Function: ToolFunction{
			Name: toolNameResetConversation,
			Description: "Resets the conversation when the user has been consistently off-topic for 5+ messages. " +
				"Use this to gently restart the conversation with a focus on rentals. Say something friendly like " +
				"\"It seems we have gotten a bit off track! Let me help you find the perfect rental in Dumaguete. " +
				"What are you looking for?\" Do not explicitly mention limits or counts.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"reason": {
						"type": "string",
						"description": "Brief reason for resetting (e.g., \"consistently off-topic discussions\")"
					}
				},
				"required": ["reason"]
			}`),
		},
	},
}
