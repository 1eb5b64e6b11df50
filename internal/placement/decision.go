package placement

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/armadaproject/placement/internal/common/util"
	"github.com/armadaproject/placement/internal/placement/model"
)

// Decision is what the submitting side needs to run one attempt of a job.
type Decision struct {
	Partition         string                `json:"partition"`
	Role              model.Role            `json:"role"`
	// Role chosen by the selector before fallback resolution.
	SelectedRole      model.Role            `json:"selectedRole"`
	FellBack          bool                  `json:"fellBack"`
	Request           model.ResourceRequest `json:"request"`
	SubmissionOptions []string              `json:"submissionOptions"`
	Hints             []string              `json:"hints,omitempty"`
}

// Summary renders the decision for humans.
func (d Decision) Summary() string {
	w := util.NewTableBuilder()
	w.WriteRow("partition:", d.Partition)
	if d.FellBack {
		w.WriteRow("role:", string(d.Role)+" (fell back from "+string(d.SelectedRole)+")")
	} else {
		w.WriteRow("role:", d.Role)
	}
	w.WriteRow("request:", d.Request)
	w.WriteRow("options:", strings.Join(d.SubmissionOptions, " "))
	for _, hint := range d.Hints {
		w.WriteRow("hint:", hint)
	}
	return w.String()
}

func (d Decision) JSON() ([]byte, error) {
	b, err := json.MarshalIndent(d, "", "  ")
	return b, errors.WithStack(err)
}

func (d Decision) YAML() ([]byte, error) {
	b, err := yaml.Marshal(d)
	return b, errors.WithStack(err)
}
