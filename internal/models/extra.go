// ABOUTME: JSON round-tripping for X API objects with members the structs do not model.
// ABOUTME: Unmodeled upstream members are kept in Extra and written back on marshal.
package models

import "encoding/json"

// decodeObject unmarshals data into typed and returns the upstream members
// that re-marshalling typed would not reproduce: unmodeled keys, and modeled
// keys dropped by omitempty.
func decodeObject(data []byte, typed any) (map[string]json.RawMessage, error) {
	if err := json.Unmarshal(data, typed); err != nil {
		return nil, err
	}
	var upstream map[string]json.RawMessage
	if err := json.Unmarshal(data, &upstream); err != nil || len(upstream) == 0 {
		return nil, err
	}

	rendered, err := json.Marshal(typed)
	if err != nil {
		return nil, err
	}
	var kept map[string]json.RawMessage
	if err := json.Unmarshal(rendered, &kept); err != nil {
		return nil, err
	}
	for key := range kept {
		delete(upstream, key)
	}
	if len(upstream) == 0 {
		return nil, nil
	}
	return upstream, nil
}

// encodeObject marshals typed and adds any extra members it does not already carry.
func encodeObject(typed any, extra map[string]json.RawMessage) ([]byte, error) {
	rendered, err := json.Marshal(typed)
	if err != nil || len(extra) == 0 {
		return rendered, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(rendered, &merged); err != nil {
		return nil, err
	}
	for key, value := range extra {
		if _, ok := merged[key]; !ok {
			merged[key] = value
		}
	}
	return json.Marshal(merged)
}

type (
	tweetJSON        Tweet
	tweetMetricsJSON TweetMetrics
	userJSON         User
	userMetricsJSON  UserMetrics
	listJSON         List
	dmEventJSON      DMEvent
	includesJSON     Includes
	metaJSON         Meta
)

func (t *Tweet) UnmarshalJSON(data []byte) error {
	var v tweetJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*t = Tweet(v)
	return nil
}

func (t Tweet) MarshalJSON() ([]byte, error) {
	return encodeObject(tweetJSON(t), t.Extra)
}

func (m *TweetMetrics) UnmarshalJSON(data []byte) error {
	var v tweetMetricsJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*m = TweetMetrics(v)
	return nil
}

func (m TweetMetrics) MarshalJSON() ([]byte, error) {
	return encodeObject(tweetMetricsJSON(m), m.Extra)
}

func (u *User) UnmarshalJSON(data []byte) error {
	var v userJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*u = User(v)
	return nil
}

func (u User) MarshalJSON() ([]byte, error) {
	return encodeObject(userJSON(u), u.Extra)
}

func (m *UserMetrics) UnmarshalJSON(data []byte) error {
	var v userMetricsJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*m = UserMetrics(v)
	return nil
}

func (m UserMetrics) MarshalJSON() ([]byte, error) {
	return encodeObject(userMetricsJSON(m), m.Extra)
}

func (l *List) UnmarshalJSON(data []byte) error {
	var v listJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*l = List(v)
	return nil
}

func (l List) MarshalJSON() ([]byte, error) {
	return encodeObject(listJSON(l), l.Extra)
}

func (e *DMEvent) UnmarshalJSON(data []byte) error {
	var v dmEventJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*e = DMEvent(v)
	return nil
}

func (e DMEvent) MarshalJSON() ([]byte, error) {
	return encodeObject(dmEventJSON(e), e.Extra)
}

func (i *Includes) UnmarshalJSON(data []byte) error {
	var v includesJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*i = Includes(v)
	return nil
}

func (i Includes) MarshalJSON() ([]byte, error) {
	return encodeObject(includesJSON(i), i.Extra)
}

func (m *Meta) UnmarshalJSON(data []byte) error {
	var v metaJSON
	extra, err := decodeObject(data, &v)
	if err != nil {
		return err
	}
	v.Extra = extra
	*m = Meta(v)
	return nil
}

func (m Meta) MarshalJSON() ([]byte, error) {
	return encodeObject(metaJSON(m), m.Extra)
}
