// Package engine assembles the full query pipeline behind one facade.
// The CLI and the MCP server both drive the same engine, so answers are
// identical regardless of the surface that asked.
package engine
