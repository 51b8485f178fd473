// Package advisor generates the assistant's replies. There is no model
// behind it: replies come from a fixed keyword table, which is exactly what
// the product ships.
package advisor

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Fallback is returned when no keyword matches.
const Fallback = "Based on your financial data, I'd be happy to help. Could you tell me more about what you'd like to know?"

// Picker selects an index in [0, n). Injected so tests can pin the variant.
type Picker func(n int) int

type topic struct {
	keyword  string
	variants []string
}

// Table order encodes priority: the first keyword found in the message wins.
var topics = []topic{
	{"vacation", []string{
		"Based on your current balance of $4,280 and your Vacation Fund at 35%, I'd recommend saving another $2,000 before taking a trip. You could reach that in about 3 months with your current savings rate.",
		"A budget vacation of $2,000-3,000 could work within your current balance. However, I'd suggest boosting your emergency fund first since it's not quite at full capacity.",
	}},
	{"spending", []string{
		"Your spending this month is tracking about 8% higher than last month, mainly due to increased entertainment expenses. I'd suggest reviewing your entertainment budget.",
		"Good news! Your spending is actually 5% lower than last month. Your groceries have been efficiently managed.",
	}},
	{"savings", []string{
		"You could save an extra $300/month by canceling unused subscriptions and meal planning. That's $3,600 per year!",
		"Your savings rate of 12% is solid. To accelerate your goals, consider redirecting 5% of your entertainment budget to your emergency fund.",
	}},
	{"budget", []string{
		"I'd recommend allocating 30% for housing, 20% for food, 10% for transport, and 15% for entertainment. That leaves 25% for savings and emergency funds.",
		"Based on your income, a good budget split would be: Essential expenses 50%, Goals 20%, Fun 15%, Emergency savings 15%.",
	}},
	{"afford", []string{
		"Let me check your finances... Yes, you can comfortably afford this with your current balance and savings rate.",
		"That depends on the price and your priorities. What's your target price range?",
	}},
}

// Responder matches free text against the topic table.
type Responder struct {
	pick Picker
}

// New creates a Responder. A nil picker uses math/rand.
func New(pick Picker) *Responder {
	if pick == nil {
		pick = rand.Intn
	}
	return &Responder{pick: pick}
}

// Reply returns a response for the message: the first topic whose keyword
// appears in the lower-cased text selects its variant list, and the picker
// chooses among the variants. No match yields Fallback.
func (r *Responder) Reply(message string) string {
	lowered := strings.ToLower(message)
	for _, t := range topics {
		if strings.Contains(lowered, t.keyword) {
			return t.variants[r.pick(len(t.variants))]
		}
	}
	return Fallback
}

// Variants exposes the response list for a keyword, mainly so tests can
// assert membership without duplicating the table.
func Variants(keyword string) []string {
	for _, t := range topics {
		if t.keyword == keyword {
			return t.variants
		}
	}
	return nil
}

// NewConversationID mints the grouping key for a fresh chat thread.
func NewConversationID(now time.Time) string {
	return fmt.Sprintf("conv_%d", now.UnixMilli())
}
