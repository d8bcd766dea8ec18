package telegram

import "fmt"

const (
	msgSearchFailed = "Sorry, something went wrong while searching. Please try again later."
	msgLostContext  = "Sorry, unable to repeat the search as I've lost the original query context."
)

func msgNoResults(query string) string {
	return fmt.Sprintf("No results found for \"%s\".", query)
}

func msgNoMoreResults(query string) string {
	return fmt.Sprintf("No more results for \"%s\".", query)
}
