package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bysinka671-afk/notification-bot/internal/domain/notifier/consts"
)

func TestDepartmentSet_DoubleToggleRestores(t *testing.T) {
	for _, start := range []DepartmentSet{
		NewDepartmentSet(),
		NewDepartmentSet("КАД"),
		NewDepartmentSet(consts.Departments...),
	} {
		for _, d := range consts.Departments {
			s := start.Clone()
			s.Toggle(d)
			s.Toggle(d)
			assert.Equal(t, start, s, d)
		}
	}
}

func TestDepartmentSet_ToggleAllIsOwnInverseFromEmpty(t *testing.T) {
	s := NewDepartmentSet()

	assert.True(t, s.ToggleAll())
	assert.True(t, s.AllSelected())
	assert.Equal(t, consts.Departments, s.Ordered())

	assert.False(t, s.ToggleAll())
	assert.Equal(t, 0, s.Len())
}

func TestDepartmentSet_ToggleAllFromPartialSelectsEverything(t *testing.T) {
	s := NewDepartmentSet("КАД", "Департамент продаж")

	assert.True(t, s.ToggleAll())
	assert.Equal(t, len(consts.Departments), s.Len())
}

func TestDepartmentSet_OrderedFollowsDirectory(t *testing.T) {
	s := NewDepartmentSet(consts.ITDepartment, "Департамент продаж", "КАД")

	assert.Equal(t, []string{"Департамент продаж", "КАД", consts.ITDepartment}, s.Ordered())
}

func TestSession_CloneIsIndependent(t *testing.T) {
	s := NewSession(1, 1)
	s.Selected.Toggle("КАД")

	c := s.Clone()
	c.Selected.Toggle("КАД")
	c.Step = StepAwaitingConfirmation

	assert.True(t, s.Selected.Has("КАД"))
	assert.Equal(t, StepAwaitingText, s.Step)
}
