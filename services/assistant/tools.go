package ai

import (
	"context"
	"fmt"
	"time"

	genai "github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"

	propertyRepo "stayhaven/database/repository/property"
	"stayhaven/models"
	"stayhaven/services/booking"
	"stayhaven/services/property"
	"stayhaven/utils"
)

// CallerContext carries the identity resolved once per request. An empty
// UserID means the caller is not signed in.
type CallerContext struct {
	UserID string
}

// ToolHandler executes one tool invocation. The returned map is the plain
// structured value fed back to the model; it never contains raw storage rows.
type ToolHandler func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error)

// Tool is one named operation the model may invoke.
type Tool struct {
	Name         string
	Description  string
	Parameters   *genai.Schema
	RequiresAuth bool
	Execute      ToolHandler
}

// ToolRegistry is the closed catalog of operations exposed to the model.
type ToolRegistry struct {
	tools map[string]Tool
	order []string
}

func (r *ToolRegistry) register(t Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Declarations renders the catalog as Gemini function declarations, in
// registration order.
func (r *ToolRegistry) Declarations() []*genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}
}

// Execute runs one tool call and always produces a structured result. Domain
// failures and missing authentication become describable results the model
// can explain conversationally; they never abort the request.
func (r *ToolRegistry) Execute(ctx context.Context, call ToolCall, caller CallerContext) ToolResult {
	logger := utils.GetLogger()

	tool, ok := r.tools[call.Name]
	if !ok {
		return ToolResult{Name: call.Name, Response: map[string]any{
			"error":   "unknown_tool",
			"message": fmt.Sprintf("no tool named %q", call.Name),
		}}
	}

	if tool.RequiresAuth && caller.UserID == "" {
		return ToolResult{Name: call.Name, Response: map[string]any{
			"error":   "authentication_required",
			"message": "The user must sign in before this action. Ask them to sign in and try again.",
		}}
	}

	out, err := tool.Execute(ctx, call.Args, caller)
	if err != nil {
		if be, ok := booking.AsBookingError(err); ok {
			resp := map[string]any{
				"error":   be.Code,
				"message": be.Message,
			}
			if len(be.Conflicts) > 0 {
				resp["conflicts"] = bookingsToMaps(be.Conflicts)
			}
			return ToolResult{Name: call.Name, Response: resp}
		}
		logger.Error("tool execution failed",
			zap.String("tool", call.Name),
			zap.Error(err))
		return ToolResult{Name: call.Name, Response: map[string]any{
			"error":   "tool_error",
			"message": "The operation failed unexpectedly. Apologize and suggest trying again.",
		}}
	}
	return ToolResult{Name: call.Name, Response: out}
}

// NewToolRegistry builds the fixed six-tool catalog bound to the booking and
// property services. now is overridable in tests; nil defaults to time.Now.
func NewToolRegistry(bookingSvc booking.BookingService, propertySvc property.PropertyService, now func() time.Time) *ToolRegistry {
	if now == nil {
		now = time.Now
	}
	r := &ToolRegistry{tools: make(map[string]Tool)}

	r.register(Tool{
		Name:        "get_current_date",
		Description: "Return today's date in YYYY-MM-DD form. Use it to resolve relative or year-less dates before other tools.",
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			t := now()
			return map[string]any{
				"date": t.Format(booking.DateLayout),
				"year": t.Year(),
			}, nil
		},
	})

	r.register(Tool{
		Name:        "search_properties",
		Description: "Search rental properties. All filters are optional. When check_in and check_out are given, only properties free for those dates are returned.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"location":      {Type: genai.TypeString, Description: "City, region or country to match"},
				"location_type": {Type: genai.TypeString, Description: "One of: city, beach, mountain, countryside"},
				"guests":        {Type: genai.TypeInteger, Description: "Minimum guest capacity"},
				"min_price":     {Type: genai.TypeNumber, Description: "Minimum price per night"},
				"max_price":     {Type: genai.TypeNumber, Description: "Maximum price per night"},
				"check_in":      {Type: genai.TypeString, Description: "Desired check-in date, YYYY-MM-DD"},
				"check_out":     {Type: genai.TypeString, Description: "Desired check-out date, YYYY-MM-DD"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			criteria := propertyRepo.PropertySearchCriteria{
				Location:     stringArg(args, "location"),
				LocationType: stringArg(args, "location_type"),
				Guests:       intArg(args, "guests"),
				MinPrice:     floatArg(args, "min_price"),
				MaxPrice:     floatArg(args, "max_price"),
			}
			properties, err := propertySvc.Search(criteria)
			if err != nil {
				return nil, err
			}

			checkIn := stringArg(args, "check_in")
			checkOut := stringArg(args, "check_out")
			if checkIn != "" && checkOut != "" {
				available := properties[:0]
				for _, p := range properties {
					result, err := bookingSvc.CheckAvailability(p.ID, checkIn, checkOut)
					if err != nil {
						return nil, err
					}
					if result.Available {
						available = append(available, p)
					}
				}
				properties = available
			}

			return map[string]any{
				"properties": propertiesToMaps(properties),
				"count":      len(properties),
			}, nil
		},
	})

	r.register(Tool{
		Name:        "check_availability",
		Description: "Check whether a property is free for a date range. Returns the conflicting bookings when it is not.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"property_id": {Type: genai.TypeString},
				"check_in":    {Type: genai.TypeString, Description: "Check-in date, YYYY-MM-DD"},
				"check_out":   {Type: genai.TypeString, Description: "Check-out date, YYYY-MM-DD"},
			},
			Required: []string{"property_id", "check_in", "check_out"},
		},
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			result, err := bookingSvc.CheckAvailability(
				stringArg(args, "property_id"),
				stringArg(args, "check_in"),
				stringArg(args, "check_out"),
			)
			if err != nil {
				return nil, err
			}
			resp := map[string]any{
				"available": result.Available,
				"nights":    result.Nights,
			}
			if len(result.Conflicts) > 0 {
				resp["conflicts"] = bookingsToMaps(result.Conflicts)
			}
			return resp, nil
		},
	})

	r.register(Tool{
		Name:         "create_booking",
		Description:  "Create a confirmed booking for the signed-in user. The total price is computed by the system.",
		RequiresAuth: true,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"property_id": {Type: genai.TypeString},
				"check_in":    {Type: genai.TypeString, Description: "Check-in date, YYYY-MM-DD"},
				"check_out":   {Type: genai.TypeString, Description: "Check-out date, YYYY-MM-DD"},
				"guest_count": {Type: genai.TypeInteger, Description: "Number of guests, at least 1"},
			},
			Required: []string{"property_id", "check_in", "check_out", "guest_count"},
		},
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			created, err := bookingSvc.Create(booking.CreateBookingRequest{
				PropertyID: stringArg(args, "property_id"),
				GuestID:    caller.UserID,
				CheckIn:    stringArg(args, "check_in"),
				CheckOut:   stringArg(args, "check_out"),
				GuestCount: intArg(args, "guest_count"),
			})
			if err != nil {
				return nil, err
			}
			return map[string]any{"booking": bookingToMap(*created)}, nil
		},
	})

	r.register(Tool{
		Name:         "cancel_booking",
		Description:  "Cancel one of the signed-in user's confirmed bookings. Only bookings whose check-in is still in the future can be cancelled.",
		RequiresAuth: true,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"booking_id": {Type: genai.TypeString},
			},
			Required: []string{"booking_id"},
		},
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			cancelled, err := bookingSvc.Cancel(stringArg(args, "booking_id"), caller.UserID, 0)
			if err != nil {
				return nil, err
			}
			return map[string]any{"booking": bookingToMap(*cancelled)}, nil
		},
	})

	r.register(Tool{
		Name:         "list_bookings",
		Description:  "List the signed-in user's bookings, optionally filtered by all, upcoming, past or cancelled.",
		RequiresAuth: true,
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"filter": {Type: genai.TypeString, Description: "One of: all, upcoming, past, cancelled. Defaults to all."},
				"limit":  {Type: genai.TypeInteger, Description: "Maximum number of bookings to return"},
			},
		},
		Execute: func(ctx context.Context, args map[string]any, caller CallerContext) (map[string]any, error) {
			filter := stringArg(args, "filter")
			if filter == "" {
				filter = booking.FilterAll
			}
			bookings, err := bookingSvc.ListForGuest(caller.UserID, filter, intArg(args, "limit"))
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"bookings": bookingsToMaps(bookings),
				"count":    len(bookings),
			}, nil
		},
	})

	return r
}

// Argument helpers. Gemini function-call arguments arrive as a decoded JSON
// object, so numbers are float64.

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func bookingToMap(b models.Booking) map[string]any {
	m := map[string]any{
		"id":          b.ID,
		"property_id": b.PropertyID,
		"check_in":    b.CheckIn,
		"check_out":   b.CheckOut,
		"guest_count": b.GuestCount,
		"total_price": b.TotalPrice,
		"status":      b.Status,
	}
	return m
}

func bookingsToMaps(bookings []models.Booking) []map[string]any {
	out := make([]map[string]any, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingToMap(b))
	}
	return out
}

func propertyToMap(p models.Property) map[string]any {
	return map[string]any{
		"id":              p.ID,
		"title":           p.Title,
		"location":        p.Location,
		"location_type":   p.LocationType,
		"price_per_night": p.PricePerNight,
		"max_guests":      p.MaxGuests,
		"amenities":       p.Amenities,
	}
}

func propertiesToMaps(properties []models.Property) []map[string]any {
	out := make([]map[string]any, 0, len(properties))
	for _, p := range properties {
		out = append(out, propertyToMap(p))
	}
	return out
}
