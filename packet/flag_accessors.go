package packet

func (p *Packet) setFlag(mask Flags, on bool) {
	if p.empty {
		return
	}
	p.flags = p.flags.With(mask, on)
}

// IsGroup reports the GROUP flag.
func (p *Packet) IsGroup() bool { return p.flags.Has(FlagGroup) }

// SetGroup sets or clears the GROUP flag.
func (p *Packet) SetGroup(on bool) { p.setFlag(FlagGroup, on) }

// IsChecksum reports the CHECKSUM flag.
func (p *Packet) IsChecksum() bool { return p.flags.Has(FlagChecksum) }

// SetChecksum sets or clears the CHECKSUM flag.
func (p *Packet) SetChecksum(on bool) { p.setFlag(FlagChecksum, on) }

// IsSignature reports the SIGNATURE flag.
func (p *Packet) IsSignature() bool { return p.flags.Has(FlagSignature) }

// SetSignature sets or clears the SIGNATURE flag.
func (p *Packet) SetSignature(on bool) { p.setFlag(FlagSignature, on) }

// IsKey reports the KEY flag.
func (p *Packet) IsKey() bool { return p.flags.Has(FlagKey) }

// SetKey sets or clears the KEY flag.
func (p *Packet) SetKey(on bool) { p.setFlag(FlagKey, on) }

// IsEncoding reports the ENCODING flag.
func (p *Packet) IsEncoding() bool { return p.flags.Has(FlagEncoding) }

// SetEncoding sets or clears the ENCODING flag.
func (p *Packet) SetEncoding(on bool) { p.setFlag(FlagEncoding, on) }

// IsFormatting reports the FORMATTING flag.
func (p *Packet) IsFormatting() bool { return p.flags.Has(FlagFormatting) }

// SetFormatting sets or clears the FORMATTING flag.
func (p *Packet) SetFormatting(on bool) { p.setFlag(FlagFormatting, on) }

// IsEncryption reports the ENCRYPTION flag.
func (p *Packet) IsEncryption() bool { return p.flags.Has(FlagEncryption) }

// SetEncryption sets or clears the ENCRYPTION flag.
func (p *Packet) SetEncryption(on bool) { p.setFlag(FlagEncryption, on) }

// IsSubheader reports the SUBHEADER flag.
func (p *Packet) IsSubheader() bool { return p.flags.Has(FlagSubheader) }

// SetSubheader sets or clears the SUBHEADER flag.
func (p *Packet) SetSubheader(on bool) { p.setFlag(FlagSubheader, on) }
