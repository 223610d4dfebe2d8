// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package cloud

// Server is one compute instance, as reported by the compute API and enriched
// by Client.Servers(). The JSON field names follow the upstream wire format,
// including the OS-EXT-* extension keys, so that listings can be passed
// through to API consumers unchanged.
type Server struct {
	ID        string                     `json:"id"`
	Name      string                     `json:"name"`
	Status    string                     `json:"status"`
	Addresses map[string][]ServerAddress `json:"addresses,omitempty"`
	Flavor    ServerFlavor               `json:"flavor"`
	Image     *ServerImage               `json:"image,omitempty"`
	Metadata  map[string]string          `json:"metadata,omitempty"`
	Created   string                     `json:"created,omitempty"`
	Updated   string                     `json:"updated,omitempty"`
	KeyName   string                     `json:"key_name,omitempty"`

	TaskState        string `json:"OS-EXT-STS:task_state,omitempty"`
	VMState          string `json:"OS-EXT-STS:vm_state,omitempty"`
	PowerState       int    `json:"OS-EXT-STS:power_state,omitempty"`
	AvailabilityZone string `json:"OS-EXT-AZ:availability_zone,omitempty"`
	Host             string `json:"OS-EXT-SRV-ATTR:host,omitempty"`
	Hypervisor       string `json:"OS-EXT-SRV-ATTR:hypervisor_hostname,omitempty"`
	InstanceName     string `json:"OS-EXT-SRV-ATTR:instance_name,omitempty"`

	AttachedVolumes []VolumeAttachment       `json:"os-extended-volumes:volumes_attached,omitempty"`
	SecurityGroups  []ServerSecurityGroupRef `json:"security_groups,omitempty"`
	TenantID        string                   `json:"tenant_id,omitempty"`
	UserID          string                   `json:"user_id,omitempty"`

	// Volumes contains the attached volumes resolved into full VolumeDetail
	// objects. Attachment IDs without a matching volume are dropped.
	Volumes []VolumeDetail `json:"volumes,omitempty"`
	// AccountID identifies the account that owns this server.
	AccountID string `json:"accountId,omitempty"`
}

// ServerAddress is one address entry in a server's address map.
type ServerAddress struct {
	Addr    string `json:"addr"`
	Version int    `json:"version"`
	MACAddr string `json:"OS-EXT-IPS-MAC:mac_addr,omitempty"`
	Type    string `json:"OS-EXT-IPS:type,omitempty"`
}

// ServerImage is the image reference inside a Server.
type ServerImage struct {
	ID string `json:"id"`
}

// ServerFlavor is the flavor sub-object inside a Server. The compute API only
// reports the ID (plus, in the current generation, an original_name); the
// sizing fields are filled in from the flavor catalog during enrichment.
type ServerFlavor struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
	RAM          int    `json:"ram,omitempty"`
	VCPUs        int    `json:"vcpus,omitempty"`
	Disk         int    `json:"disk,omitempty"`
	Ephemeral    int    `json:"ephemeral,omitempty"`
	Swap         int    `json:"swap,omitempty"`
}

// ServerSecurityGroupRef is a security group reference inside a Server.
type ServerSecurityGroupRef struct {
	Name string `json:"name"`
}

// VolumeAttachment is one entry of a server's attached-volume list.
type VolumeAttachment struct {
	ID string `json:"id"`
}

// FlavorDetail is one instance-type definition from the flavor catalog.
type FlavorDetail struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	RAM       int    `json:"ram"`
	VCPUs     int    `json:"vcpus"`
	Disk      int    `json:"disk"`
	Ephemeral int    `json:"ephemeral,omitempty"`
	Swap      int    `json:"swap,omitempty"`
	AccountID string `json:"accountId,omitempty"`
}

// VolumeDetail is one block-storage volume.
type VolumeDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Status   string `json:"status"`
	Type     string `json:"volume_type,omitempty"`
	Bootable string `json:"bootable,omitempty"`
}

// SecurityGroup is one firewall rule-set definition.
type SecurityGroup struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AccountID   string `json:"accountId,omitempty"`
}

// Port is a network attachment point binding a server to a network.
type Port struct {
	ID             string   `json:"id"`
	SecurityGroups []string `json:"security_groups"`
	DeviceID       string   `json:"device_id"`
}

// GraphData is one telemetry graph: a list of column names, plus rows of
// [timestamp, value...] samples. Missing samples are reported as null.
type GraphData struct {
	Schema []string     `json:"schema"`
	Data   [][]*float64 `json:"data"`
}

// CPUGraph is the response payload of the CPU telemetry endpoint.
type CPUGraph struct {
	CPU GraphData `json:"cpu"`
}

// DiskGraph is the response payload of the disk telemetry endpoint.
type DiskGraph struct {
	Disk GraphData `json:"disk"`
}

// NetworkGraph is the response payload of the interface telemetry endpoint.
type NetworkGraph struct {
	Interface GraphData `json:"interface"`
}
