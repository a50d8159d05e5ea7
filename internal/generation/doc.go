// Package generation provides the interface and error taxonomy for
// interacting with external AI/LLM services. It abstracts the details of the
// LLM API integration (Gemini), allowing the application to generate
// checklists from task descriptions without coupling to a specific external
// service.
package generation
