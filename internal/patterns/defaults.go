// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package patterns

import "time"

// Category IDs of the default table.
const (
	Greetings = "greetings"
	Farewell  = "farewell"
	Gratitude = "gratitude"
	Identity  = "identity"
	Mood      = "mood"
	Joke      = "joke"
	Help      = "help"
	Time      = "time"
)

// DefaultTable returns the shipped table. The time replies are rendered
// from now when the table is built, not when a reply is chosen.
func DefaultTable(now time.Time) *Table {
	return NewTable(
		Category{
			ID:       Greetings,
			Triggers: []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"},
			Responses: []string{
				"Hello! 😊 How can I assist you today?",
				"Hi there! 👋 Nice to see you!",
				"Hey! How's your day going?",
			},
		},
		Category{
			ID:       Farewell,
			Triggers: []string{"bye", "goodbye", "see you", "take care"},
			Responses: []string{
				"Goodbye! 👋 Have a wonderful day!",
				"See you soon! 😊",
				"Take care! Looking forward to our next chat!",
			},
		},
		Category{
			ID:       Gratitude,
			Triggers: []string{"thanks", "thank you", "appreciate"},
			Responses: []string{
				"You're welcome! 😇",
				"My pleasure! 😊",
				"Anytime! Happy to help!",
			},
		},
		Category{
			ID:       Identity,
			Triggers: []string{"who are you", "what is your name", "what are you"},
			Responses: []string{
				"I'm ChatBuddy Pro, your AI assistant! 🤖",
				"I'm your friendly chatbot, here to help and chat! 😄",
			},
		},
		Category{
			ID:       Mood,
			Triggers: []string{"how are you", "how do you feel", "how's it going"},
			Responses: []string{
				"I'm doing great, thanks for asking! Ready to help! 😊",
				"All systems go! How about you?",
				"Feeling fantastic! What's on your mind?",
			},
		},
		Category{
			ID:       Joke,
			Triggers: []string{"joke", "funny", "make me laugh"},
			Responses: []string{
				"Why don't scientists trust atoms? Because they make up everything! 😂",
				"Why did the scarecrow win an award? He was outstanding in his field! 🌾",
				"What do you call a fake noodle? An impasta! 🍝",
			},
		},
		Category{
			ID:       Help,
			Triggers: []string{"help", "what can you do", "features"},
			Responses: []string{
				"I can chat with you, tell jokes, analyze sentiment, remember our conversation, and much more! Try saying 'tell me a joke' or 'analyze my mood'! 🎯",
				"I'm here to chat, help, and entertain! You can ask me about anything, or try our special features like file attachments or sentiment analysis! ✨",
			},
		},
		Category{
			ID:       Time,
			Triggers: []string{"time", "what time", "current time"},
			Responses: []string{
				"The current time is " + now.Format("15:04:05") + " ⏰",
				"According to my clock, it's " + now.Format("03:04 PM") + " 🕐",
			},
		},
	)
}
