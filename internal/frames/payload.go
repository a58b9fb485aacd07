package frames

import "github.com/coreamqp/amqp-link/internal/encoding"

var sectionNames = map[byte]string{
	0x70: "header",
	0x71: "delivery_annotations",
	0x72: "message_annotations",
	0x73: "properties",
	0x74: "application_properties",
	0x75: "data",
	0x76: "sequence",
	0x77: "value",
	0x78: "footer",
}

// DecodePayload walks the message-format sections carried after a
// transfer frame's declared fields, keying each by its section name.
// Because a single message may be split across several "data" sections,
// those accumulate into a list under the "data" key rather than
// overwriting one another.
func DecodePayload(buf []byte) (map[string]any, error) {
	sections := make(map[string]any)
	for len(buf) > 0 {
		if len(buf) < 3 || buf[0] != 0x00 || buf[1] != 0x53 {
			return nil, &FrameShapeError{Reason: "payload section missing described-type descriptor"}
		}
		descriptor := buf[2]
		name, ok := sectionNames[descriptor]
		if !ok {
			return nil, &FrameShapeError{Reason: "unrecognized payload section descriptor"}
		}
		value, rest, err := encoding.Decode(buf[3:])
		if err != nil {
			return nil, err
		}
		if name == "data" {
			list, _ := sections["data"].([]any)
			sections["data"] = append(list, value)
		} else {
			sections[name] = value
		}
		buf = rest
	}
	return sections, nil
}
