package prompts

// System is the assistant persona for every generated answer.
const System = `You are a code assistant answering questions about a loaded source repository.
Base your answers on the provided file contents and retrieved snippets.
If the answer is not in the provided context, say so instead of guessing.`

const fileExplanationTemplate = `Question about file: {{file_name}}
File path: {{file_path}}

File content:
` + "```{{file_type}}\n{{content}}\n```" + `

User question: {{question}}

Please provide a detailed explanation of the code, including its purpose, structure, and key components.
If the user is asking to see the code, include the relevant snippet in your response.`

const structuralTemplate = `Repository structure:
{{structure}}

User question: {{question}}

Note: The file might be in one of these directories. Please check the repository structure and inform the user about available files.`

// FileExplanation builds the augmented prompt for a question scoped to a
// single resolved file.
func FileExplanation(fileName, filePath, fileType, content, question string) string {
	return NewBuilder(fileExplanationTemplate).
		SetVariable("file_name", fileName).
		SetVariable("file_path", filePath).
		SetVariable("file_type", fileType).
		SetVariable("content", content).
		SetVariable("question", question).
		Build()
}

// Structural builds the prompt for queries that mention no specific file,
// giving the model the directory-grouped file listing.
func Structural(structure, question string) string {
	return NewBuilder(structuralTemplate).
		SetVariable("structure", structure).
		SetVariable("question", question).
		Build()
}
