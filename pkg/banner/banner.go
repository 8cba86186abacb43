package banner

import "fmt"

const banner = `
 ██████╗██╗  ██╗ █████╗ ████████╗████████╗███████╗██████╗ ██████╗  ██████╗ ██╗  ██╗
██╔════╝██║  ██║██╔══██╗╚══██╔══╝╚══██╔══╝██╔════╝██╔══██╗██╔══██╗██╔═══██╗╚██╗██╔╝
██║     ███████║███████║   ██║      ██║   █████╗  ██████╔╝██████╔╝██║   ██║ ╚███╔╝
██║     ██╔══██║██╔══██║   ██║      ██║   ██╔══╝  ██╔══██╗██╔══██╗██║   ██║ ██╔██╗
╚██████╗██║  ██║██║  ██║   ██║      ██║   ███████╗██║  ██║██████╔╝╚██████╔╝██╔╝ ██╗
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝      ╚═╝   ╚══════╝╚═╝  ╚═╝╚═════╝  ╚═════╝ ╚═╝  ╚═╝
`

// Print shows the startup banner with the effective runtime settings.
func Print(addr, chatDir, version string, configured bool) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:     %s\n", addr)
	fmt.Printf("Chat files: %s\n", chatDir)
	fmt.Printf("Completion: configured=%v\n", configured)
	if version != "" {
		fmt.Printf("Version:    %s\n", version)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/chat/send    - Send a message (JSON: {\"message\": \"...\"})")
	fmt.Println("GET  /v1/chat/history - Chat history, newest first")
	fmt.Println("POST /v1/chat/clear   - Clear the live session")
	fmt.Println("GET  /v1/chat/health  - Service health and configuration state")
	fmt.Println("GET  /v1/chat/files   - Persisted session files, newest first")
	fmt.Println("\nClose with Ctrl+C to save the session.")
}
