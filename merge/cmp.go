package merge

import (
	"github.com/potools/potools/catalog"
)

// Compare checks a definition catalog for completeness against a
// reference catalog, the msgcmp operation.  Every reference message
// missing from the definitions is one error; when a similar
// definition exists it is named in a two-part diagnostic.  Definition
// messages no reference uses produce warnings, which do not count as
// errors.
func Compare(def, ref *catalog.List) (int, []catalog.Diagnostic) {
	errors := 0
	var diags []catalog.Diagnostic

	for _, rd := range ref.Domains {
		var defMsgs *catalog.MessageList
		for _, dd := range def.Domains {
			if dd.Name == rd.Name {
				defMsgs = dd.Messages
				break
			}
		}
		if defMsgs == nil {
			defMsgs = catalog.NewMessageList()
		}
		used := make(map[*catalog.Message]bool)

		for _, refMsg := range rd.Messages.Messages {
			if refMsg.Obsolete {
				continue
			}
			if defMsg := defMsgs.Search(refMsg.MsgID); defMsg != nil {
				used[defMsg] = true
				continue
			}
			errors++
			if fuzzyMsg, _ := defMsgs.FuzzySearch(refMsg.MsgID); fuzzyMsg != nil {
				// The suggested definition counts as used; it must
				// not also show up as an unused-message warning.
				used[fuzzyMsg] = true
				diags = append(diags, catalog.Diagnostic{
					Pos:     refMsg.Pos,
					Message: "this message is used but not defined...",
					Parts: []catalog.Diagnostic{{
						Pos:     fuzzyMsg.Pos,
						Message: "...but this definition is similar",
					}},
				})
			} else {
				diags = append(diags, catalog.Diagnostic{
					Pos:     refMsg.Pos,
					Message: "this message is used but not defined",
				})
			}
		}

		for _, defMsg := range defMsgs.Messages {
			if used[defMsg] || defMsg.Obsolete || defMsg.IsHeader() {
				continue
			}
			diags = append(diags, catalog.Diagnostic{
				Pos:     defMsg.Pos,
				Message: "warning: this message is not used",
			})
		}
	}
	return errors, diags
}
