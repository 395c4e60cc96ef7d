package route

import (
	"fmt"
	"net/http"

	"github.com/evergreen-ci/gimlet"
)

func makeUpdateResponder(entity, id string, changed bool) gimlet.Responder {
	if !changed {
		return makeMessageResponder(http.StatusOK, fmt.Sprintf("No changes made to %s with id %s", entity, id))
	}
	return makeMessageResponder(http.StatusOK, fmt.Sprintf("Successfully updated %s with id %s", entity, id))
}

func makeRemoveResponder(entity, id string) gimlet.Responder {
	return makeMessageResponder(http.StatusAccepted, fmt.Sprintf("Successfully removed %s with id %s", entity, id))
}
