package resolver

import (
	"fmt"
	"strings"
)

// systemInstruction frames the translator's role for chat-style
// providers.
const systemInstruction = "You translate natural language into terminal commands. " +
	"Reply with exactly one executable command line and nothing else."

// buildPrompt renders the translation contract: the supported command
// list, the conversion rules, and a fixed set of examples.
func buildPrompt(req TranslationRequest) string {
	var sb strings.Builder

	sb.WriteString("Convert this natural language input to a terminal command.\n")
	fmt.Fprintf(&sb, "Supported commands: %s\n\n", strings.Join(req.Commands, ", "))
	fmt.Fprintf(&sb, "Input: %q\n\n", req.Text)
	sb.WriteString(`Rules:
- Only return the executable command, no explanations
- Use proper syntax for each command
- For file operations, use the current directory if no path is given
- Commands must be safe to execute

Examples:
- "list files in current directory" -> "dir"
- "create a folder called test" -> "mkdir test"
- "delete the folder test" -> "rmdir test"
- "delete the file hello.txt" -> "del hello.txt"
- "copy file.txt to backup" -> "copy file.txt backup"
- "move file1.txt to test folder" -> "move file1.txt test"
- "rename old.txt to new.txt" -> "ren old.txt new.txt"
- "show contents of file.txt" -> "type file.txt"
- "show all running processes" -> "tasklist"
- "kill process with id 1234" -> "taskkill /pid 1234"
- "check CPU usage" -> "cpu"
- "check memory usage" -> "mem"
- "show network configuration" -> "ipconfig"
- "ping google.com" -> "ping google.com"
- "show network connections" -> "netstat"
- "clear the screen" -> "cls"
- "echo hello world" -> "echo hello world"

Return only the command:`)

	return sb.String()
}
