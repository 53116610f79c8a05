// Package dom is an in-memory, DOM-like node tree: elements, text leaves and
// comment markers, attributes and inline styles, event listeners with
// bubbling, and a MutationObserver that queues child-list records until the
// document's notification checkpoint (Document.Flush).
//
// It is the host tree livetree's element package reconciles against. It is
// not safe for concurrent use: one goroutine owns a Document and every node
// created from it.
package dom
