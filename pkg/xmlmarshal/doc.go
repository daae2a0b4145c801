// Package xmlmarshal renders compiled instances as XML, pretty or compact.
package xmlmarshal
