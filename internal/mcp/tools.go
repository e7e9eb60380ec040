package mcp

import "github.com/mark3labs/mcp-go/mcp"

var askSubjectTool = mcp.NewTool("ask_subject",
	mcp.WithDescription("Answer a question using only the documents ingested for a subject."),
	mcp.WithString("subject",
		mcp.Required(),
		mcp.Description("Subject name, as used at ingestion"),
	),
	mcp.WithString("question",
		mcp.Required(),
		mcp.Description("Natural language question"),
	),
)

var searchPassagesTool = mcp.NewTool("search_passages",
	mcp.WithDescription("Return the passages of a subject most relevant to a query, without generating an answer."),
	mcp.WithString("subject",
		mcp.Required(),
		mcp.Description("Subject name"),
	),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
)

var listSubjectsTool = mcp.NewTool("list_subjects",
	mcp.WithDescription("List every subject with its summary and the number of quiz items and flashcards."),
)

var getSubjectTool = mcp.NewTool("get_subject",
	mcp.WithDescription("Get the full study bundle of a subject: summary, quiz and flashcards."),
	mcp.WithString("subject",
		mcp.Required(),
		mcp.Description("Subject name"),
	),
)
