package telegram

const parseModeMarkdown = "Markdown"

const welcomeMessage = `🤖 *Service Station Operations Bot*

I can help you log:
• *Petty Cash Expenses* - "Spent 5000 on lunch"
• *Fuel Logs* - "Hilux used 40 liters"
• *Tasks* - "Assign John to safety inspection"
• *Issues* - "Urgent: Air compressor broken"

*Multiple Entries*
Separate multiple entries with semicolons (;):
"Spent 5000 on lunch; Hilux used 40 liters; Assign John to safety inspection"

Just send me a message and I'll process it automatically!`

const helpMessage = `📋 *How to use this bot:*

*Single Entries:*
Just send a natural message and I'll understand!

*Multiple Entries:*
Separate multiple entries with semicolons (;):

*Examples:*
• "Spent 5000 on lunch; Paid 20000 for generator fuel"
• "Hilux used 40 liters; Prado fueled 60 liters"
• "Assign John to safety inspection; Prepare client presentation"
• "Spent 5000 on lunch; Hilux used 40 liters; Assign John to safety inspection"

Just type naturally and I'll understand!`

const (
	replyProcessingError = "❌ Sorry, there was an error processing your message. Please try again."
	replySlowDown        = "⏳ Slow down a little. Please wait a moment before sending more entries."
)
