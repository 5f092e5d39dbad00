// Package prompt implements the yes/no confirmation used before tagclean
// applies or acknowledges a rule's candidate set.
package prompt
