package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/supersql/pkg/lint"
)

func TestRulesCommand_ListAll(t *testing.T) {
	useConfig(t, nil)

	out, _, err := execute(t, NewRulesCommand(), "")
	require.NoError(t, err)

	assert.Contains(t, out, "Lint Rules")
	assert.Contains(t, out, "Syntax")
	assert.Contains(t, out, "Convention")
	assert.Contains(t, out, "CV01  convention.not_equal - hint")
	assert.NotContains(t, out, "Use one spelling")
}

func TestRulesCommand_Verbose(t *testing.T) {
	useConfig(t, nil)

	out, _, err := execute(t, NewRulesCommand(), "", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "Use one spelling of the not equal operator")
}

func TestRulesCommand_FilterByGroup(t *testing.T) {
	useConfig(t, jsonOutput)

	out, _, err := execute(t, NewRulesCommand(), "", "--group", "ambiguous")
	require.NoError(t, err)

	var result RulesJSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, len(lint.GetByGroup("ambiguous")), result.Count)
	for _, r := range result.Rules {
		assert.Equal(t, "ambiguous", r.Group)
		assert.Equal(t, []string{"query"}, r.Files)
	}
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	useConfig(t, nil)

	out, _, err := execute(t, NewRulesCommand(), "", "cv01")
	require.NoError(t, err)

	assert.Contains(t, out, "CV01 - convention.not_equal")
	assert.Contains(t, out, "Group: convention")
	assert.Contains(t, out, "Files: query")
	assert.Contains(t, out, "Options: preferred")
}

func TestRulesCommand_ShowDataRuleJSON(t *testing.T) {
	useConfig(t, jsonOutput)

	out, _, err := execute(t, NewRulesCommand(), "", "SS01")
	require.NoError(t, err)

	var info RuleJSON
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "SS01", info.ID)
	assert.Equal(t, []string{"query", "data"}, info.Files)
}

func TestRulesCommand_UnknownRule(t *testing.T) {
	useConfig(t, nil)

	_, _, err := execute(t, NewRulesCommand(), "", "XX99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCapitalizeFirst(t *testing.T) {
	assert.Equal(t, "Syntax", capitalizeFirst("syntax"))
	assert.Equal(t, "", capitalizeFirst(""))
}
