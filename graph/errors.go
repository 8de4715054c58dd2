package graph

import "github.com/pkg/errors"

var errInconsistentTotalStake = errors.New("total stake mismatch between forks")
